package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s2311-del/shopease-india-connect/internal/middleware"
	"github.com/s2311-del/shopease-india-connect/internal/order"
)

type publishCall struct {
	exchange string
	key      string
	msg      amqp.Publishing
	deadline bool
}

type fakeChannel struct {
	calls []publishCall
	err   error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	_, ok := ctx.Deadline()
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg, deadline: ok})
	return f.err
}

func sampleOrder() order.Order {
	return order.Order{
		ID:              "o1",
		UserID:          "u1",
		TotalPrice:      1100,
		DeliveryAddress: "12 MG Road, Bengaluru",
		ContactNumber:   "+91 98450 00000",
		Status:          order.StatusConfirmed,
		OrderDate:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Items: []order.Item{
			{ProductID: "p2", ProductName: "Kurta", Quantity: 2, Price: 400},
			{ProductID: "p1", ProductName: "Lamp", Quantity: 1, Price: 300},
		},
	}
}

func TestPublisher_PublishOrderPlaced(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, PublisherOptions{}, log.New(io.Discard, "", 0))
	ctx := middleware.WithCorrelationID(context.Background(), "corr-1")

	require.NoError(t, p.PublishOrderPlaced(ctx, sampleOrder()))
	require.Len(t, ch.calls, 1)

	call := ch.calls[0]
	assert.Equal(t, EventsExchange, call.exchange)
	assert.Equal(t, OrderPlacedRoutingKey, call.key)
	assert.True(t, call.deadline)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)

	var ev OrderPlacedEvent
	require.NoError(t, json.Unmarshal(call.msg.Body, &ev))
	assert.Equal(t, EventTypeOrderPlaced, ev.EventName)
	assert.Equal(t, 1, ev.EventVersion)
	assert.Equal(t, "corr-1", ev.CorrelationID)
	assert.Equal(t, "storefront", ev.Producer)
	assert.Equal(t, "o1", ev.PartitionKey)
	assert.Equal(t, int64(1), ev.Sequence)
	assert.Equal(t, call.msg.MessageId, ev.EventID)
	assert.Equal(t, 1100.0, ev.Payload.TotalPrice)
	require.Len(t, ev.Payload.Items, 2)
	assert.Equal(t, "Kurta", ev.Payload.Items[0].Name)
	assert.Equal(t, "Confirmed", ev.Payload.Status)
}

func TestPublisher_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel/connection is not open")}
	p := newPublisher(ch, PublisherOptions{MaxFailures: 2, OpenTimeout: time.Minute}, log.New(io.Discard, "", 0))
	ctx := context.Background()

	require.Error(t, p.PublishOrderPlaced(ctx, sampleOrder()))
	require.Error(t, p.PublishOrderPlaced(ctx, sampleOrder()))

	err := p.PublishOrderPlaced(ctx, sampleOrder())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, ch.calls, 2)
}

func TestPublisher_Close_WithoutChannel(t *testing.T) {
	p := newPublisher(&fakeChannel{}, PublisherOptions{}, nil)
	assert.NoError(t, p.Close())
}
