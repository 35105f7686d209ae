package events

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/s2311-del/shopease-india-connect/internal/middleware"
)

type Consumer struct {
	ch *amqp.Channel
}

func (c *Consumer) Close() error {
	return c.ch.Close()
}

// StartConsumer binds a durable storefront queue to routingKey on the events exchange and
// feeds each delivery to handler until ctx is cancelled.
func StartConsumer(ctx context.Context, conn *amqp.Connection, routingKey string, handler HandlerFunc, logger *log.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	queue := storefrontQueueName(routingKey)
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, routingKey, EventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue bind %s: %w", queue, err)
	}

	msgs, err := ch.Consume(
		queue,
		storefrontServiceName, // consumer tag
		false,                 // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}

	go consume(ctx, msgs, routingKey, handler, logger)
	return &Consumer{ch: ch}, nil
}

func StartStatusConsumer(ctx context.Context, conn *amqp.Connection, handler HandlerFunc, logger *log.Logger) (*Consumer, error) {
	return StartConsumer(ctx, conn, OrderStatusChangedRoutingKey, handler, logger)
}

// acknowledger is the subset of amqp.Delivery the loop settles messages with.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func consume(ctx context.Context, msgs <-chan amqp.Delivery, routingKey string, handler HandlerFunc, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Printf("stopping %s consumer", routingKey)
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Printf("%s messages channel closed", routingKey)
				return
			}
			handleDelivery(ctx, msg, msg.Body, msg.CorrelationId, handler, logger)
		}
	}
}

func handleDelivery(ctx context.Context, ack acknowledger, body []byte, correlationID string, handler HandlerFunc, logger *log.Logger) {
	if correlationID != "" {
		ctx = middleware.WithCorrelationID(ctx, correlationID)
	}
	if err := handler(ctx, body); err != nil {
		logger.Printf("handle message error: %v", err)
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}
