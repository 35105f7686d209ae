package catalog

import (
	"context"
	"io"
	"log"

	"github.com/s2311-del/shopease-india-connect/internal/cache"
)

const (
	relatedLimit  = 4
	featuredLimit = 4
	vendorLimit   = 4
)

type ProductPage struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

type ProductDetail struct {
	Product Product   `json:"product"`
	Related []Product `json:"related"`
}

type CategoryDetail struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}

// Service serves catalog reads through the query cache and drops the
// product-related entries whenever an admin write goes through.
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

func (s *Service) Browse(ctx context.Context, q ListingQuery) (ProductPage, error) {
	if err := q.Validate(); err != nil {
		return ProductPage{}, err
	}

	key := cache.Key{Name: cache.NameProducts, Params: q.CacheParams()}
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (ProductPage, error) {
		all, err := s.repo.ListProducts(ctx)
		if err != nil {
			return ProductPage{}, err
		}
		products, err := Apply(all, q)
		if err != nil {
			return ProductPage{}, err
		}
		return ProductPage{Products: products, Count: len(products)}, nil
	})
}

func (s *Service) Featured(ctx context.Context) ([]Product, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Name: cache.NameFeatured}, func(ctx context.Context) ([]Product, error) {
		return s.repo.FeaturedProducts(ctx, featuredLimit)
	})
}

func (s *Service) Product(ctx context.Context, productID string) (ProductDetail, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return ProductDetail{}, err
	}
	related, err := s.repo.RelatedProducts(ctx, p, relatedLimit)
	if err != nil {
		return ProductDetail{}, err
	}
	return ProductDetail{Product: p, Related: related}, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Name: cache.NameCategories}, s.repo.ListCategories)
}

func (s *Service) Category(ctx context.Context, categoryID string) (CategoryDetail, error) {
	c, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return CategoryDetail{}, err
	}
	products, err := s.repo.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return CategoryDetail{}, err
	}
	return CategoryDetail{Category: c, Products: products}, nil
}

func (s *Service) Vendors(ctx context.Context) ([]Vendor, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Name: cache.NameVendors}, func(ctx context.Context) ([]Vendor, error) {
		return s.repo.ListVendors(ctx, vendorLimit)
	})
}

func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "", cache.NameProducts, cache.NameFeatured, cache.NameCategories); err != nil {
		s.logger.Printf("invalidate product listings: %v", err)
	}
}
