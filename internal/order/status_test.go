package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reachedSet(current Status) []Status {
	var out []Status
	for _, st := range Progress(current) {
		if st.Reached {
			out = append(out, st.Status)
		}
	}
	return out
}

func TestProgress(t *testing.T) {
	tests := map[string]struct {
		current Status
		want    []Status
	}{
		"confirmed":  {current: StatusConfirmed, want: []Status{StatusConfirmed}},
		"processing": {current: StatusProcessing, want: []Status{StatusConfirmed, StatusProcessing}},
		"shipped":    {current: StatusShipped, want: []Status{StatusConfirmed, StatusProcessing, StatusShipped}},
		"delivered":  {current: StatusDelivered, want: Steps},
		"cancelled":  {current: StatusCancelled, want: nil},
		"unknown":    {current: Status("Lost"), want: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, reachedSet(tt.current))
			assert.Len(t, Progress(tt.current), len(Steps))
		})
	}
}

func TestReached_ShippedDoesNotReachDelivered(t *testing.T) {
	assert.True(t, Reached(StatusShipped, StatusProcessing))
	assert.False(t, Reached(StatusShipped, StatusDelivered))
	assert.False(t, Reached(StatusCancelled, StatusConfirmed))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	s, err = ParseStatus("Cancelled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, s)

	_, err = ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
