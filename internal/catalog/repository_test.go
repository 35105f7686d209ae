package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{
	"id", "name", "description", "image_url", "price", "sale_price", "is_on_sale",
	"is_featured", "stock", "category_id", "vendor_id", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func TestPostgresRepository_ListProducts(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	cat := "c1"

	rows := pgxmock.NewRows(productRowColumns).
		AddRow("p1", "Kurta", "cotton", "k.png", 1200.0, ptr(999.0), true, false, 4, &cat, (*string)(nil), now, now).
		AddRow("p2", "Lamp", "brass", "l.png", 450.0, (*float64)(nil), false, true, 0, (*string)(nil), (*string)(nil), now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products p ORDER BY p.created_at DESC`)).
		WillReturnRows(rows)

	got, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 999.0, got[0].EffectivePrice())
	assert.Equal(t, "c1", *got[0].CategoryID)
	assert.Nil(t, got[1].SalePrice)
	assert.False(t, got[1].InStock())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListProducts_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products p`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresRepository_GetProduct(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	cat, vendor := "c1", "v1"

	columns := append(append([]string{}, productRowColumns...),
		"category_name", "vendor_name", "vendor_description", "vendor_logo_url", "vendor_location")
	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN vendors v ON v.id = p.vendor_id WHERE p.id = $1`)).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			"p1", "Kurta", "cotton", "k.png", 1200.0, (*float64)(nil), false, true, 3, &cat, &vendor, now, now,
			"Fashion", "Jaipur Looms", "handloom", "jl.png", "Jaipur",
		))

	p, err := repo.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Fashion", p.CategoryName)
	require.NotNil(t, p.Vendor)
	assert.Equal(t, "v1", p.Vendor.ID)
	assert.Equal(t, "Jaipur", p.Vendor.Location)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetProduct_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id = $1`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_RelatedProducts(t *testing.T) {
	t.Run("without category returns nothing", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		got, err := repo.RelatedProducts(context.Background(), Product{ID: "p1"}, 4)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("same category excluding self", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		cat := "c1"

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.category_id = $1 AND p.id <> $2`)).
			WithArgs("c1", "p1", 4).
			WillReturnRows(pgxmock.NewRows(productRowColumns))

		got, err := repo.RelatedProducts(context.Background(), Product{ID: "p1", CategoryID: &cat}, 4)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepository_ListCategories(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM categories c LEFT JOIN products p`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "image_url", "created_at", "count"}).
			AddRow("c1", "Electronics", "", "", now, 12).
			AddRow("c2", "Fashion", "", "", now, 0))

	got, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 12, got[0].ProductCount)
	assert.Equal(t, "Fashion", got[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetCategory_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM categories c WHERE c.id = $1`)).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetCategory(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_CreateProduct_AssignsID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	p := &Product{Name: "Saree", Price: 2500, Stock: 5}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products`)).
		WithArgs(pgxmock.AnyArg(), "Saree", "", "", 2500.0, (*float64)(nil), false, false, 5, (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.CreateProduct(context.Background(), p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, now, p.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_WriteWithUnknownReference(t *testing.T) {
	missing := "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "products_category_id_fkey"}

	t.Run("create", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products`)).
			WillReturnError(fkErr)

		err := repo.CreateProduct(context.Background(), &Product{Name: "Lamp", Price: 450, CategoryID: &missing})
		assert.ErrorIs(t, err, ErrUnknownReference)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE products`)).
			WillReturnError(fkErr)

		err := repo.UpdateProduct(context.Background(), &Product{ID: "p1", Name: "Lamp", VendorID: &missing})
		assert.ErrorIs(t, err, ErrUnknownReference)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepository_UpdateProduct_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE products`)).
		WillReturnError(pgx.ErrNoRows)

	err := repo.UpdateProduct(context.Background(), &Product{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_DeleteProduct(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)).
			WithArgs("p1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeleteProduct(context.Background(), "p1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)).
			WithArgs("p9").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.DeleteProduct(context.Background(), "p9"), ErrNotFound)
	})
}
