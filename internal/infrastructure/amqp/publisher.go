package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/iho/finledger/internal/domain"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Envelope is the message body sent for every outbox event.
type Envelope struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Payload       map[string]any `json:"payload"`
}

// Publisher publishes outbox events to a direct exchange, routed by
// event type.
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newPublisherWithChannel(ch, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newPublisherWithChannel(ch channel, exchange string) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{channel: ch, exchange: exchange}, nil
}

// Publish sends one event as a persistent JSON message. The event ID is
// the message ID so consumers can drop redeliveries.
func (p *Publisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	body, err := json.Marshal(Envelope{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		OccurredAt:    event.CreatedAt,
		Payload:       event.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,      // exchange
		event.EventType, // routing key
		false,           // mandatory
		false,           // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.ID,
			Type:         event.EventType,
			Timestamp:    event.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
