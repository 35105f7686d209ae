package order

import (
	"fmt"
	"slices"
)

type Status string

const (
	StatusConfirmed  Status = "Confirmed"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Steps is the fulfilment sequence shown on the order page. Cancelled is not part of it.
var Steps = []Status{StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered}

func (s Status) Valid() bool {
	return s == StatusCancelled || slices.Contains(Steps, s)
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return s, nil
}

// Reached reports whether step is at or before current in the fulfilment sequence.
// A cancelled (or unknown) order reaches no step.
func Reached(current, step Status) bool {
	ci := slices.Index(Steps, current)
	si := slices.Index(Steps, step)
	if ci < 0 || si < 0 {
		return false
	}
	return si <= ci
}

type Step struct {
	Status  Status `json:"status"`
	Reached bool   `json:"reached"`
}

func Progress(current Status) []Step {
	out := make([]Step, 0, len(Steps))
	for _, s := range Steps {
		out = append(out, Step{Status: s, Reached: Reached(current, s)})
	}
	return out
}
