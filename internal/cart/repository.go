package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound        = errors.New("cart line not found")
	ErrUnknownProduct  = errors.New("product does not exist")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// foreign_key_violation
const pqForeignKeyViolation = "23503"

type Repository interface {
	Lines(ctx context.Context, userID string) ([]Line, error)
	Count(ctx context.Context, userID string) (int, error)
	Upsert(ctx context.Context, userID, productID string, quantity int) (string, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error
	Remove(ctx context.Context, userID, lineID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Lines(ctx context.Context, userID string) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.product_id, c.quantity, c.created_at,
                p.name, p.image_url, p.price, p.sale_price, p.is_on_sale, p.stock
         FROM cart c
         JOIN products p ON p.id = c.product_id
         WHERE c.user_id = $1
         ORDER BY c.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select cart: %w", err)
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.CreatedAt,
			&l.Name, &l.ImageURL, &l.Price, &l.SalePrice, &l.IsOnSale, &l.Stock); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}

func (r *repo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cart WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cart: %w", err)
	}
	return n, nil
}

// Upsert sets the quantity of productID in the user's cart, creating the line if needed.
func (r *repo) Upsert(ctx context.Context, userID, productID string, quantity int) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO cart (id, user_id, product_id, quantity)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
         RETURNING id`,
		uuid.NewString(), userID, productID, quantity,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return "", ErrUnknownProduct
		}
		return "", fmt.Errorf("upsert cart line: %w", err)
	}
	return id, nil
}

func (r *repo) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart SET quantity = $3 WHERE id = $1 AND user_id = $2`,
		lineID, userID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	return requireOneRow(res)
}

func (r *repo) Remove(ctx context.Context, userID, lineID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE id = $1 AND user_id = $2`, lineID, userID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
