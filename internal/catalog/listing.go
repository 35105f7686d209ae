package catalog

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// All is the sentinel for an inactive filter.
const All = "all"

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

var sortAliases = map[SortKey]SortKey{
	"":           SortNewest,
	"price-asc":  SortPriceLow,
	"price-desc": SortPriceHigh,
}

var ErrInvalidQuery = errors.New("invalid listing query")

// PriceBracket is the half-open range [Min, Max) on the effective price.
type PriceBracket struct {
	Min float64
	Max float64
}

func (b PriceBracket) Contains(price float64) bool {
	return price >= b.Min && price < b.Max
}

var priceBrackets = map[string]PriceBracket{
	"under-500":  {Min: math.Inf(-1), Max: 500},
	"500-1000":   {Min: 500, Max: 1000},
	"1000-2000":  {Min: 1000, Max: 2000},
	"above-2000": {Min: 2000, Max: math.Inf(1)},
}

type ListingQuery struct {
	Search     string  `json:"search,omitempty"`
	Category   string  `json:"category,omitempty"`
	PriceRange string  `json:"price,omitempty"`
	Sort       SortKey `json:"sort,omitempty"`
}

// Normalize resolves sort aliases and blank filters to their canonical values.
func (q ListingQuery) Normalize() ListingQuery {
	if alias, ok := sortAliases[q.Sort]; ok {
		q.Sort = alias
	}
	q.Search = strings.TrimSpace(q.Search)
	if q.Category == "" {
		q.Category = All
	}
	if q.PriceRange == "" {
		q.PriceRange = All
	}
	return q
}

func (q ListingQuery) Validate() error {
	q = q.Normalize()
	if q.PriceRange != All {
		if _, ok := priceBrackets[q.PriceRange]; !ok {
			return fmt.Errorf("%w: unknown price range %q", ErrInvalidQuery, q.PriceRange)
		}
	}
	switch q.Sort {
	case SortNewest, SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc:
	default:
		return fmt.Errorf("%w: unknown sort %q", ErrInvalidQuery, q.Sort)
	}
	return nil
}

// CacheParams is a stable encoding of the query for cache keys.
func (q ListingQuery) CacheParams() string {
	q = q.Normalize()
	return fmt.Sprintf("q=%s;c=%s;p=%s;s=%s", strings.ToLower(q.Search), q.Category, q.PriceRange, q.Sort)
}

// Matches reports whether p passes every active filter of q.
func (q ListingQuery) Matches(p Product) bool {
	q = q.Normalize()

	if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
		return false
	}
	if q.Category != All && (p.CategoryID == nil || *p.CategoryID != q.Category) {
		return false
	}
	if q.PriceRange != All {
		bracket, ok := priceBrackets[q.PriceRange]
		if !ok || !bracket.Contains(p.EffectivePrice()) {
			return false
		}
	}
	return true
}

// Apply filters products by q and then sorts the survivors. The input slice is not modified.
func Apply(products []Product, q ListingQuery) ([]Product, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = q.Normalize()

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Matches(p) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, comparator(q.Sort))
	return out, nil
}

func comparator(key SortKey) func(a, b Product) int {
	switch key {
	case SortPriceLow:
		return func(a, b Product) int { return cmp.Compare(a.EffectivePrice(), b.EffectivePrice()) }
	case SortPriceHigh:
		return func(a, b Product) int { return cmp.Compare(b.EffectivePrice(), a.EffectivePrice()) }
	case SortNameAsc:
		return compareNames
	case SortNameDesc:
		return func(a, b Product) int { return compareNames(b, a) }
	default:
		return func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

func compareNames(a, b Product) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}
