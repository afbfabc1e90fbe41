package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
	"github.com/iho/finledger/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(db generated.DBTX) *OutboxRepository {
	return &OutboxRepository{
		db:      db,
		queries: generated.New(db),
	}
}

// Create creates a new outbox event within a transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	return queriesFor(r.db, tx).CreateOutboxEvent(ctx, generated.CreateOutboxEventParams{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(event.CreatedAt),
	})
}

// GetUnpublished retrieves unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.queries.GetUnpublishedOutboxEvents(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	events := make([]*domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, rowToOutboxEvent(row))
	}

	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return r.queries.MarkOutboxEventPublished(ctx, generated.MarkOutboxEventPublishedParams{
		ID:          id,
		PublishedAt: timeToPgTimestamptz(publishedAt),
	})
}

func rowToOutboxEvent(row generated.OutboxEvent) *domain.OutboxEvent {
	var payload map[string]any
	if row.Payload != nil {
		_ = json.Unmarshal(row.Payload, &payload)
	}

	var publishedAt *time.Time
	if row.PublishedAt.Valid {
		t := row.PublishedAt.Time
		publishedAt = &t
	}

	return &domain.OutboxEvent{
		ID:            row.ID,
		AggregateID:   row.AggregateID,
		AggregateType: row.AggregateType,
		EventType:     row.EventType,
		Payload:       payload,
		CreatedAt:     row.CreatedAt.Time,
		PublishedAt:   publishedAt,
		Published:     row.Published,
	}
}
