package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker/v2"

	"github.com/s2311-del/shopease-india-connect/internal/middleware"
	"github.com/s2311-del/shopease-india-connect/internal/order"
)

const publishTimeout = 3 * time.Second

// publishChannel is the part of *amqp.Channel the publisher needs.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type PublisherOptions struct {
	Producer string
	// Consecutive publish failures before the breaker opens.
	MaxFailures uint32
	// How long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
}

type Publisher struct {
	ch       publishChannel
	closer   func() error
	breaker  *gobreaker.CircuitBreaker[struct{}]
	producer string
	now      func() time.Time
}

func NewPublisher(conn *amqp.Connection, opts PublisherOptions, logger *log.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	p := newPublisher(ch, opts, logger)
	p.closer = ch.Close
	return p, nil
}

func newPublisher(ch publishChannel, opts PublisherOptions, logger *log.Logger) *Publisher {
	if opts.Producer == "" {
		opts.Producer = storefrontServiceName
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "rabbitmq-publish",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Printf("circuit breaker %s: %s -> %s", name, from, to)
			}
		},
	})

	return &Publisher{
		ch:       ch,
		breaker:  breaker,
		producer: opts.Producer,
		now:      time.Now,
	}
}

func (p *Publisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o order.Order) error {
	ev := newOrderPlacedEvent(middleware.GetCorrelationID(ctx), p.producer, orderPlacedPayload(o), p.now().UTC())

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced envelope: %w", err)
	}
	return p.publishJSON(ctx, OrderPlacedRoutingKey, ev.EventID, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		return struct{}{}, p.ch.PublishWithContext(
			pubCtx,
			EventsExchange,
			routingKey,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    messageID,
				Timestamp:    p.now().UTC(),
				Body:         body,
			},
		)
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}
