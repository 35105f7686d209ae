package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	GetByID(ctx context.Context, orderID string) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListRecent(ctx context.Context, limit int) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) (Order, error)
	Stats(ctx context.Context) (Stats, error)
}

type TransactionalRepository interface {
	Repository
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, orderID string, status Status) (Order, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = `id, user_id, user_email, total_price, delivery_address, contact_number, status, order_date, updated_at`

func orderDest(o *Order) []any {
	return []any{
		&o.ID, &o.UserID, &o.UserEmail, &o.TotalPrice, &o.DeliveryAddress, &o.ContactNumber,
		&o.Status, &o.OrderDate, &o.UpdatedAt,
	}
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID).Scan(orderDest(&o)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("select order: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, product_name, product_image, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name
	`, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	o.Items = []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.ProductImage, &it.Quantity, &it.Price); err != nil {
			return Order{}, fmt.Errorf("scan order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return Order{}, fmt.Errorf("rows: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) queryOrders(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(orderDest(&o)...); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return orders, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_date DESC`, userID)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC LIMIT $1`, limit)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID string, status Status) (Order, error) {
	return updateStatus(ctx, r.pool, orderID, status)
}

func (r *PostgresRepository) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return r.pool.BeginTx(ctx, txOptions)
}

func (r *PostgresRepository) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, orderID string, status Status) (Order, error) {
	return updateStatus(ctx, tx, orderID, status)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func updateStatus(ctx context.Context, q rowQuerier, orderID string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var o Order
	err := q.QueryRow(ctx, `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, orderID, status).Scan(orderDest(&o)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM categories),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders)
	`).Scan(&s.Products, &s.Orders, &s.Categories, &s.Revenue)
	if err != nil {
		return Stats{}, fmt.Errorf("select stats: %w", err)
	}
	return s, nil
}
