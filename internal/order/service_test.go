package order

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s2311-del/shopease-india-connect/internal/auth"
	"github.com/s2311-del/shopease-india-connect/internal/cache"
)

type fakeRepo struct {
	getByIDFn      func(ctx context.Context, orderID string) (Order, error)
	listByUserFn   func(ctx context.Context, userID string) ([]Order, error)
	listRecentFn   func(ctx context.Context, limit int) ([]Order, error)
	updateStatusFn func(ctx context.Context, orderID string, status Status) (Order, error)
	statsFn        func(ctx context.Context) (Stats, error)
}

func (f *fakeRepo) GetByID(ctx context.Context, orderID string) (Order, error) {
	return f.getByIDFn(ctx, orderID)
}
func (f *fakeRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return f.listByUserFn(ctx, userID)
}
func (f *fakeRepo) ListRecent(ctx context.Context, limit int) ([]Order, error) {
	return f.listRecentFn(ctx, limit)
}
func (f *fakeRepo) UpdateStatus(ctx context.Context, orderID string, status Status) (Order, error) {
	return f.updateStatusFn(ctx, orderID, status)
}
func (f *fakeRepo) Stats(ctx context.Context) (Stats, error) { return f.statsFn(ctx) }

type invalidationRecorder struct {
	cache.Noop
	calls [][]string
	err   error
}

func (r *invalidationRecorder) Invalidate(_ context.Context, userID string, names ...string) error {
	r.calls = append(r.calls, append([]string{userID}, names...))
	return r.err
}

func TestServiceGet(t *testing.T) {
	repo := &fakeRepo{getByIDFn: func(_ context.Context, id string) (Order, error) {
		return Order{ID: id, UserID: "owner", Status: StatusShipped}, nil
	}}
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	t.Run("owner sees progress", func(t *testing.T) {
		d, err := svc.Get(ctx, auth.Session{UserID: "owner"}, "o1")
		require.NoError(t, err)
		require.Len(t, d.Progress, 4)
		assert.True(t, d.Progress[2].Reached)
		assert.False(t, d.Progress[3].Reached)
	})

	t.Run("other customer", func(t *testing.T) {
		_, err := svc.Get(ctx, auth.Session{UserID: "intruder", Role: auth.RoleCustomer}, "o1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("admin", func(t *testing.T) {
		_, err := svc.Get(ctx, auth.Session{UserID: "staff", Role: auth.RoleAdmin}, "o1")
		assert.NoError(t, err)
	})
}

func TestServiceDashboard(t *testing.T) {
	repo := &fakeRepo{
		statsFn: func(context.Context) (Stats, error) { return Stats{Orders: 2, Revenue: 99}, nil },
		listRecentFn: func(_ context.Context, limit int) ([]Order, error) {
			assert.Equal(t, recentLimit, limit)
			return []Order{{ID: "o2"}, {ID: "o1"}}, nil
		},
	}

	d, err := NewService(repo, nil, nil).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Stats.Orders)
	assert.Len(t, d.RecentOrders, 2)
}

func TestServiceUpdateStatus_InvalidatesOwnersOrders(t *testing.T) {
	rec := &invalidationRecorder{}
	repo := &fakeRepo{updateStatusFn: func(_ context.Context, id string, s Status) (Order, error) {
		return Order{ID: id, UserID: "owner", Status: s}, nil
	}}

	o, err := NewService(repo, rec, nil).UpdateStatus(context.Background(), "o1", StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Equal(t, [][]string{{"owner", cache.NameOrders}}, rec.calls)
}

func TestServiceUpdateStatus_LogsInvalidationFailure(t *testing.T) {
	rec := &invalidationRecorder{err: errors.New("redis scan failed: i/o timeout")}
	repo := &fakeRepo{updateStatusFn: func(_ context.Context, id string, s Status) (Order, error) {
		return Order{ID: id, UserID: "owner", Status: s}, nil
	}}
	var logs bytes.Buffer

	_, err := NewService(repo, rec, log.New(&logs, "", 0)).UpdateStatus(context.Background(), "o1", StatusShipped)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "invalidate orders cache order=o1 user=owner")
}
