package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventEnvelope wraps every event the storefront publishes or consumes.
type EventEnvelope struct {
	EventName     string          `json:"eventName"`
	EventVersion  int             `json:"eventVersion"`
	EventID       string          `json:"eventId"`
	CorrelationID string          `json:"correlationId,omitempty"`
	CausationID   string          `json:"causationId,omitempty"`
	Producer      string          `json:"producer"`
	PartitionKey  string          `json:"partitionKey"`
	Sequence      int64           `json:"sequence,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Schema        string          `json:"schema"`
	Payload       json.RawMessage `json:"payload"`
}

func (e EventEnvelope) Validate(expectedName string, expectedVersion int) error {
	switch {
	case e.EventName != expectedName:
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	case e.EventVersion != expectedVersion:
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	case e.PartitionKey == "":
		return fmt.Errorf("missing partitionKey")
	case e.EventID == "":
		return fmt.Errorf("missing eventId")
	case len(e.Payload) == 0:
		return fmt.Errorf("missing payload")
	}
	return nil
}

func parseEnvelope(body []byte) (EventEnvelope, error) {
	var env EventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return EventEnvelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}
