package order

import (
	"context"
	"errors"
	"io"
	"log"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s2311-del/shopease-india-connect/internal/auth"
	"github.com/s2311-del/shopease-india-connect/internal/cache"
)

var cartColumns = []string{"product_id", "quantity", "name", "image_url", "price", "sale_price", "is_on_sale"}

type publisherMock struct {
	published []Order
	err       error
}

func (p *publisherMock) PublishOrderPlaced(_ context.Context, o Order) error {
	p.published = append(p.published, o)
	return p.err
}

type placerFixture struct {
	placer    *Placer
	mock      pgxmock.PgxPoolIface
	redis     *miniredis.Miniredis
	store     *cache.RedisCache
	publisher *publisherMock
}

func newPlacerFixture(t *testing.T) placerFixture {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cache.NewRedisCache(client, time.Minute)

	pub := &publisherMock{}
	return placerFixture{
		placer:    NewPlacer(mock, store, pub, log.New(io.Discard, "", 0)),
		mock:      mock,
		redis:     mr,
		store:     store,
		publisher: pub,
	}
}

var (
	shopper  = auth.Session{UserID: "u1", Email: "asha@example.in", Role: auth.RoleCustomer}
	delivery = Delivery{Address: "12 MG Road, Bengaluru", ContactNumber: "+91 98450 00000"}
)

func expectCart(mock pgxmock.PgxPoolIface, rows *pgxmock.Rows) {
	mock.ExpectQuery(regexp.QuoteMeta(`FROM cart c JOIN products p ON p.id = c.product_id WHERE c.user_id = $1`)).
		WithArgs("u1").
		WillReturnRows(rows)
}

func twoLineCart() *pgxmock.Rows {
	sale := 400.0
	return pgxmock.NewRows(cartColumns).
		AddRow("p2", 2, "Kurta", "k.png", 500.0, &sale, true).
		AddRow("p1", 1, "Lamp", "l.png", 300.0, (*float64)(nil), false)
}

func TestPlacer_Place(t *testing.T) {
	f := newPlacerFixture(t)
	ctx := context.Background()
	now := time.Now()

	cartKey := cache.Key{Name: cache.NameCart, UserID: "u1"}
	countKey := cache.Key{Name: cache.NameCartCount, UserID: "u1"}
	listingKey := cache.Key{Name: cache.NameProducts, Params: "q=;c=all;p=all;s=newest"}
	for _, k := range []cache.Key{cartKey, countKey, listingKey} {
		require.NoError(t, f.store.Set(ctx, k, []byte("x")))
	}

	f.mock.ExpectBegin()
	expectCart(f.mock, twoLineCart())
	f.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs(pgxmock.AnyArg(), "u1", "asha@example.in", 1100.0, delivery.Address, delivery.ContactNumber, StatusConfirmed).
		WillReturnRows(pgxmock.NewRows([]string{"order_date", "updated_at"}).AddRow(now, now))
	f.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "p2", "Kurta", "k.png", 2, 400.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "p1", "Lamp", "l.png", 1, 300.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`)).
		WithArgs("p1", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`)).
		WithArgs("p2", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	f.mock.ExpectCommit()

	id, err := f.placer.Place(ctx, shopper, delivery)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, f.mock.ExpectationsWereMet())

	require.Len(t, f.publisher.published, 1)
	placed := f.publisher.published[0]
	assert.Equal(t, id, placed.ID)
	assert.Equal(t, StatusConfirmed, placed.Status)
	require.Len(t, placed.Items, 2)

	var sum float64
	for _, it := range placed.Items {
		sum += it.LineTotal()
	}
	assert.Equal(t, placed.TotalPrice, sum)

	assert.False(t, f.redis.Exists(cartKey.String()))
	assert.False(t, f.redis.Exists(countKey.String()))
	assert.False(t, f.redis.Exists(listingKey.String()))
}

func TestPlacer_Place_EmptyCartCreatesNoOrder(t *testing.T) {
	f := newPlacerFixture(t)

	f.mock.ExpectBegin()
	expectCart(f.mock, pgxmock.NewRows(cartColumns))
	f.mock.ExpectRollback()

	_, err := f.placer.Place(context.Background(), shopper, delivery)
	assert.ErrorIs(t, err, ErrEmptyCart)
	require.NoError(t, f.mock.ExpectationsWereMet())
	assert.Empty(t, f.publisher.published)
}

func TestPlacer_Place_InsufficientStockRollsBack(t *testing.T) {
	f := newPlacerFixture(t)
	now := time.Now()

	f.mock.ExpectBegin()
	expectCart(f.mock, twoLineCart())
	f.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnRows(pgxmock.NewRows([]string{"order_date", "updated_at"}).AddRow(now, now))
	f.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs("p1", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs("p2", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	f.mock.ExpectRollback()

	_, err := f.placer.Place(context.Background(), shopper, delivery)
	require.ErrorIs(t, err, ErrInsufficientStock)

	stockErr, ok := IsInsufficientStock(err)
	require.True(t, ok)
	assert.Equal(t, "p2", stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Requested)

	require.NoError(t, f.mock.ExpectationsWereMet())
	assert.Empty(t, f.publisher.published)
}

func TestPlacer_Place_ItemInsertErrorRollsBack(t *testing.T) {
	f := newPlacerFixture(t)
	now := time.Now()

	f.mock.ExpectBegin()
	expectCart(f.mock, twoLineCart())
	f.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnRows(pgxmock.NewRows([]string{"order_date", "updated_at"}).AddRow(now, now))
	f.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnError(errors.New("disk full"))
	f.mock.ExpectRollback()

	_, err := f.placer.Place(context.Background(), shopper, delivery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPlacer_Place_PublishFailureDoesNotFailCheckout(t *testing.T) {
	f := newPlacerFixture(t)
	f.publisher.err = errors.New("broker unreachable")
	now := time.Now()

	f.mock.ExpectBegin()
	expectCart(f.mock, pgxmock.NewRows(cartColumns).AddRow("p1", 1, "Lamp", "l.png", 300.0, (*float64)(nil), false))
	f.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnRows(pgxmock.NewRows([]string{"order_date", "updated_at"}).AddRow(now, now))
	f.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart`)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.mock.ExpectCommit()

	id, err := f.placer.Place(context.Background(), shopper, delivery)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, f.publisher.published, 1)
}

func TestPlacer_Place_RequiresSession(t *testing.T) {
	f := newPlacerFixture(t)

	_, err := f.placer.Place(context.Background(), auth.Session{}, delivery)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	require.NoError(t, f.mock.ExpectationsWereMet())
}
