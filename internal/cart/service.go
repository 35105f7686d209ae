package cart

import (
	"context"
	"io"
	"log"

	"github.com/s2311-del/shopease-india-connect/internal/cache"
)

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

func (s *Service) View(ctx context.Context, userID string) (View, error) {
	lines, err := cache.Fetch(ctx, s.cache, cache.Key{Name: cache.NameCart, UserID: userID}, func(ctx context.Context) ([]Line, error) {
		return s.repo.Lines(ctx, userID)
	})
	if err != nil {
		return View{}, err
	}
	return NewView(lines), nil
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Name: cache.NameCartCount, UserID: userID}, func(ctx context.Context) (int, error) {
		return s.repo.Count(ctx, userID)
	})
}

// Add puts quantity units of productID in the cart, replacing any quantity already there.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) (string, error) {
	if quantity < 1 {
		return "", ErrInvalidQuantity
	}
	id, err := s.repo.Upsert(ctx, userID, productID, quantity)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, userID, cache.NameCartCount, cache.NameCart)
	return id, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if err := s.repo.UpdateQuantity(ctx, userID, lineID, quantity); err != nil {
		return err
	}
	s.invalidate(ctx, userID, cache.NameCart)
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, lineID string) error {
	if err := s.repo.Remove(ctx, userID, lineID); err != nil {
		return err
	}
	s.invalidate(ctx, userID, cache.NameCart, cache.NameCartCount)
	return nil
}

// invalidate runs after the write has committed, so a cache failure is only logged.
func (s *Service) invalidate(ctx context.Context, userID string, names ...string) {
	if err := s.cache.Invalidate(ctx, userID, names...); err != nil {
		s.logger.Printf("invalidate cart cache user=%s names=%v: %v", userID, names, err)
	}
}
