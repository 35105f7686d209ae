package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const EventTypeOrderStatusChanged = "OrderStatusChanged"

// OrderStatusChangedPayload is published by fulfilment when an order moves along.
type OrderStatusChangedPayload struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type orderStatusChangedMessage struct {
	Envelope EventEnvelope
	Payload  OrderStatusChangedPayload
}

func parseOrderStatusChanged(body []byte) (orderStatusChangedMessage, error) {
	env, err := parseEnvelope(body)
	if err != nil {
		return orderStatusChangedMessage{}, err
	}
	if err := env.Validate(EventTypeOrderStatusChanged, 1); err != nil {
		return orderStatusChangedMessage{}, err
	}

	var payload OrderStatusChangedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return orderStatusChangedMessage{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.OrderID == "" {
		return orderStatusChangedMessage{}, fmt.Errorf("missing orderId")
	}
	return orderStatusChangedMessage{Envelope: env, Payload: payload}, nil
}
