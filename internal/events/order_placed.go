package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/s2311-del/shopease-india-connect/internal/order"
)

const (
	EventTypeOrderPlaced = "OrderPlaced"
	orderPlacedSchema    = "storefront/order.placed.v1"
)

type OrderPlacedItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type OrderPlacedPayload struct {
	OrderID         string            `json:"orderId"`
	UserID          string            `json:"userId"`
	TotalPrice      float64           `json:"totalPrice"`
	DeliveryAddress string            `json:"deliveryAddress"`
	ContactNumber   string            `json:"contactNumber"`
	Status          string            `json:"status"`
	Items           []OrderPlacedItem `json:"items"`
	PlacedAt        time.Time         `json:"placedAt"`
}

type OrderPlacedEvent struct {
	EventEnvelope
	Payload OrderPlacedPayload `json:"payload"`
}

func orderPlacedPayload(o order.Order) OrderPlacedPayload {
	p := OrderPlacedPayload{
		OrderID:         o.ID,
		UserID:          o.UserID,
		TotalPrice:      o.TotalPrice,
		DeliveryAddress: o.DeliveryAddress,
		ContactNumber:   o.ContactNumber,
		Status:          string(o.Status),
		Items:           make([]OrderPlacedItem, 0, len(o.Items)),
		PlacedAt:        o.OrderDate.UTC(),
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, OrderPlacedItem{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return p
}

// The order id is the partition; placement is always its first event.
func newOrderPlacedEvent(correlationID, producer string, payload OrderPlacedPayload, occurredAt time.Time) OrderPlacedEvent {
	return OrderPlacedEvent{
		EventEnvelope: EventEnvelope{
			EventName:     EventTypeOrderPlaced,
			EventVersion:  1,
			EventID:       uuid.NewString(),
			CorrelationID: correlationID,
			Producer:      producer,
			PartitionKey:  payload.OrderID,
			Sequence:      1,
			OccurredAt:    occurredAt,
			Schema:        orderPlacedSchema,
		},
		Payload: payload,
	}
}
