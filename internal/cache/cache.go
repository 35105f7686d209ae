package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var ErrMiss = errors.New("cache miss")

// Query names used as the first component of every cache key. Invalidation works per name.
const (
	NameCart       = "cart"
	NameCartCount  = "cartCount"
	NameOrders     = "orders"
	NameProducts   = "products"
	NameFeatured   = "featuredProducts"
	NameCategories = "categories"
	NameVendors    = "vendors"
)

const keyPrefix = "storefront"

// Key identifies one cached query result: the query name, the user it belongs to
// (empty for shared data) and the query parameters.
type Key struct {
	Name   string
	UserID string
	Params string
}

func (k Key) String() string {
	return strings.Join([]string{keyPrefix, k.Name, segment(k.UserID), segment(k.Params)}, ":")
}

func segment(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	// Invalidate drops every entry of the given names for userID, whatever their params.
	Invalidate(ctx context.Context, userID string, names ...string) error
}

// Fetch returns the cached value for key, or calls load and caches its result.
// Cache failures never fail the call; they only cost a trip to load.
func Fetch[T any](ctx context.Context, s Store, key Key, load func(context.Context) (T, error)) (T, error) {
	if data, err := s.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if data, err := json.Marshal(v); err == nil {
		_ = s.Set(ctx, key, data)
	}
	return v, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, Key) ([]byte, error)           { return nil, ErrMiss }
func (Noop) Set(context.Context, Key, []byte) error             { return nil }
func (Noop) Invalidate(context.Context, string, ...string) error { return nil }
