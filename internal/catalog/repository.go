package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownReference = errors.New("category or vendor does not exist")
)

// foreign_key_violation
const pgForeignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, productID string) (Product, error)
	RelatedProducts(ctx context.Context, p Product, limit int) ([]Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]Product, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, categoryID string) (Category, error)
	ListVendors(ctx context.Context, limit int) ([]Vendor, error)

	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, productID string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `p.id, p.name, p.description, p.image_url, p.price, p.sale_price, p.is_on_sale,
	p.is_featured, p.stock, p.category_id, p.vendor_id, p.created_at, p.updated_at`

func productDest(p *Product) []any {
	return []any{
		&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.Price, &p.SalePrice, &p.IsOnSale,
		&p.IsFeatured, &p.Stock, &p.CategoryID, &p.VendorID, &p.CreatedAt, &p.UpdatedAt,
	}
}

func (r *PostgresRepository) queryProducts(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(productDest(&p)...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products p ORDER BY p.created_at DESC`)
}

func (r *PostgresRepository) GetProduct(ctx context.Context, productID string) (Product, error) {
	var (
		p      Product
		vendor Vendor
	)
	dest := append(productDest(&p), &p.CategoryName, &vendor.Name, &vendor.Description, &vendor.LogoURL, &vendor.Location)

	err := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`,
			COALESCE(c.name, ''), COALESCE(v.name, ''), COALESCE(v.description, ''),
			COALESCE(v.logo_url, ''), COALESCE(v.location, '')
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN vendors v ON v.id = p.vendor_id
		WHERE p.id = $1
	`, productID).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}

	if p.VendorID != nil {
		vendor.ID = *p.VendorID
		p.Vendor = &vendor
	}
	return p, nil
}

func (r *PostgresRepository) RelatedProducts(ctx context.Context, p Product, limit int) ([]Product, error) {
	if p.CategoryID == nil {
		return []Product{}, nil
	}
	return r.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		WHERE p.category_id = $1 AND p.id <> $2
		ORDER BY p.created_at DESC
		LIMIT $3
	`, *p.CategoryID, p.ID, limit)
}

func (r *PostgresRepository) FeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		WHERE p.is_featured
		ORDER BY p.created_at DESC
		LIMIT $1
	`, limit)
}

func (r *PostgresRepository) ListProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		WHERE p.category_id = $1
		ORDER BY p.created_at DESC
	`, categoryID)
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.description, c.image_url, c.created_at, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, categoryID string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		SELECT c.id, c.name, c.description, c.image_url, c.created_at,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id)
		FROM categories c
		WHERE c.id = $1
	`, categoryID).Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt, &c.ProductCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListVendors(ctx context.Context, limit int) ([]Vendor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, logo_url, location, created_at
		FROM vendors
		ORDER BY name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("select vendors: %w", err)
	}
	defer rows.Close()

	vendors := []Vendor{}
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.LogoURL, &v.Location, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return vendors, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, image_url, price, sale_price, is_on_sale,
			is_featured, stock, category_id, vendor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.ImageURL, p.Price, p.SalePrice, p.IsOnSale,
		p.IsFeatured, p.Stock, p.CategoryID, p.VendorID).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUnknownReference
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, p *Product) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, image_url = $4, price = $5, sale_price = $6,
			is_on_sale = $7, is_featured = $8, stock = $9, category_id = $10, vendor_id = $11,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.ImageURL, p.Price, p.SalePrice,
		p.IsOnSale, p.IsFeatured, p.Stock, p.CategoryID, p.VendorID).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return ErrUnknownReference
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, productID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
