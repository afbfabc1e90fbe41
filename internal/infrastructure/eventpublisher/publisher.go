package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// EventPublisher relays events from the outbox to a Publisher.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	recorder   Recorder
	logger     zerolog.Logger
	batchSize  int
	interval   time.Duration
	now        func() time.Time
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Recorder observes delivery outcomes.
type Recorder interface {
	EventPublished(eventType string, err error)
}

type nopRecorder struct{}

func (nopRecorder) EventPublished(string, error) {}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Recorder   Recorder
	Logger     zerolog.Logger
	BatchSize  int           // Number of events to fetch per batch
	Interval   time.Duration // Polling interval
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Second
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger.With().Str("component", "outbox_relay").Logger(),
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start polls the outbox until ctx is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	// Process immediately on start
	if _, err := ep.ProcessOnce(ctx); err != nil {
		ep.logger.Error().Err(err).Msg("error processing events on start")
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := ep.ProcessOnce(ctx); err != nil {
				ep.logger.Error().Err(err).Msg("error processing events")
			}
		}
	}
}

// ProcessOnce publishes one batch in outbox order and returns how many
// events were delivered. The batch stops at the first publish failure so
// consumers never see events of one transaction out of order; the failed
// event is retried on the next poll.
func (ep *EventPublisher) ProcessOnce(ctx context.Context) (int, error) {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	ep.logger.Debug().Int("count", len(events)).Msg("processing events")

	published := 0
	for _, event := range events {
		if err := ep.publisher.Publish(ctx, event); err != nil {
			ep.recorder.EventPublished(event.EventType, err)
			ep.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			break
		}
		ep.recorder.EventPublished(event.EventType, nil)

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, ep.now()); err != nil {
			// Delivered but not marked: the event goes out again next poll.
			ep.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Msg("failed to mark event as published")
			return published, err
		}
		published++

		ep.logger.Info().
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Str("aggregate_id", event.AggregateID).
			Msg("event published")
	}

	return published, nil
}

// LogPublisher is a simple publisher that logs events. The relay falls
// back to it when no broker is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event")

	return nil
}
