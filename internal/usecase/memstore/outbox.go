package memstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	s *Store
}

func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail(OpOutboxCreate); err != nil {
		return err
	}

	st, err := r.s.view(tx)
	if err != nil {
		return err
	}

	st.outbox = append(st.outbox, *event)

	return nil
}

func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*domain.OutboxEvent, 0)
	for _, e := range r.s.committed.outbox {
		if e.Published {
			continue
		}
		ev := e
		out = append(out, &ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.committed.outbox {
		if r.s.committed.outbox[i].ID == id {
			at := publishedAt
			r.s.committed.outbox[i].Published = true
			r.s.committed.outbox[i].PublishedAt = &at
			return nil
		}
	}

	return fmt.Errorf("memstore: outbox event %s not found", id)
}

// Events returns every committed event in insertion order.
func (r *OutboxRepository) Events() []domain.OutboxEvent {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return append([]domain.OutboxEvent(nil), r.s.committed.outbox...)
}

// SequentialIDs generates "prefix-000001", "prefix-000002" and so on.
type SequentialIDs struct {
	prefix string
	n      atomic.Int64
}

// NewSequentialIDs returns a generator with the given prefix.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.n.Add(1))
}
