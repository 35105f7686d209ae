package order

import (
	"context"
	"io"
	"log"

	"github.com/s2311-del/shopease-india-connect/internal/auth"
	"github.com/s2311-del/shopease-india-connect/internal/cache"
)

const recentLimit = 10

// Detail is an order together with its progress through the fulfilment steps.
type Detail struct {
	Order
	Progress []Step `json:"progress"`
}

type Dashboard struct {
	Stats        Stats   `json:"stats"`
	RecentOrders []Order `json:"recentOrders"`
}

type Service struct {
	repo   Repository
	cache  cache.Store
	logger *log.Logger
}

func NewService(repo Repository, store cache.Store, logger *log.Logger) *Service {
	if store == nil {
		store = cache.Noop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, cache: store, logger: logger}
}

func (s *Service) ListMine(ctx context.Context, session auth.Session) ([]Order, error) {
	key := cache.Key{Name: cache.NameOrders, UserID: session.UserID}
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]Order, error) {
		return s.repo.ListByUser(ctx, session.UserID)
	})
}

// Get returns the order if the session may see it. Orders of other users look
// missing to customers.
func (s *Service) Get(ctx context.Context, session auth.Session, orderID string) (Detail, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return Detail{}, err
	}
	if o.UserID != session.UserID && !session.IsAdmin() {
		return Detail{}, ErrNotFound
	}
	return Detail{Order: o, Progress: Progress(o.Status)}, nil
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.repo.ListRecent(ctx, recentLimit)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Stats: stats, RecentOrders: recent}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status) (Order, error) {
	o, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return Order{}, err
	}
	if err := s.cache.Invalidate(ctx, o.UserID, cache.NameOrders); err != nil {
		s.logger.Printf("invalidate orders cache order=%s user=%s: %v", o.ID, o.UserID, err)
	}
	return o, nil
}
