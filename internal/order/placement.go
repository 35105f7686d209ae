package order

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/s2311-del/shopease-india-connect/internal/auth"
	"github.com/s2311-del/shopease-india-connect/internal/cache"
	"github.com/s2311-del/shopease-india-connect/internal/catalog"
)

// Delivery is what the customer enters on the checkout form.
type Delivery struct {
	Address       string
	ContactNumber string
}

// EventPublisher is notified once an order has been committed.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o Order) error
}

// Placer turns a user's cart into an order inside a single transaction.
type Placer struct {
	pool      DBPool
	cache     cache.Store
	publisher EventPublisher
	logger    *log.Logger
}

func NewPlacer(pool DBPool, store cache.Store, publisher EventPublisher, logger *log.Logger) *Placer {
	if store == nil {
		store = cache.Noop{}
	}
	return &Placer{pool: pool, cache: store, publisher: publisher, logger: logger}
}

type cartLine struct {
	productID string
	quantity  int
	name      string
	imageURL  string
	price     float64
	salePrice *float64
	isOnSale  bool
}

func (l cartLine) unitPrice() float64 {
	return catalog.EffectivePrice(l.price, l.salePrice, l.isOnSale)
}

// Place creates an order from the session user's cart and returns its id.
// Stock is decremented and the cart cleared in the same transaction; if any
// step fails nothing is written.
func (p *Placer) Place(ctx context.Context, session auth.Session, d Delivery) (string, error) {
	if !session.Authenticated() {
		return "", auth.ErrUnauthenticated
	}

	o, err := p.place(ctx, session, d)
	if err != nil {
		return "", err
	}

	p.logger.Printf("placed order id=%s user=%s lines=%d total=%.2f", o.ID, o.UserID, len(o.Items), o.TotalPrice)

	if err := p.cache.Invalidate(ctx, session.UserID, cache.NameCart, cache.NameCartCount, cache.NameOrders); err != nil {
		p.logger.Printf("invalidate user cache after order id=%s: %v", o.ID, err)
	}
	if err := p.cache.Invalidate(ctx, "", cache.NameProducts, cache.NameFeatured, cache.NameCategories); err != nil {
		p.logger.Printf("invalidate listings after order id=%s: %v", o.ID, err)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishOrderPlaced(ctx, o); err != nil {
			p.logger.Printf("publish order.placed id=%s failed: %v", o.ID, err)
		}
	}
	return o.ID, nil
}

func (p *Placer) place(ctx context.Context, session auth.Session, d Delivery) (Order, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lines, err := lockCart(ctx, tx, session.UserID)
	if err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	o := Order{
		ID:              uuid.NewString(),
		UserID:          session.UserID,
		UserEmail:       session.Email,
		DeliveryAddress: d.Address,
		ContactNumber:   d.ContactNumber,
		Status:          StatusConfirmed,
		Items:           make([]Item, 0, len(lines)),
	}
	for _, l := range lines {
		it := Item{
			ID:           uuid.NewString(),
			ProductID:    l.productID,
			ProductName:  l.name,
			ProductImage: l.imageURL,
			Quantity:     l.quantity,
			Price:        l.unitPrice(),
		}
		o.Items = append(o.Items, it)
		o.TotalPrice += it.LineTotal()
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, user_email, total_price, delivery_address, contact_number, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING order_date, updated_at
	`, o.ID, o.UserID, o.UserEmail, o.TotalPrice, o.DeliveryAddress, o.ContactNumber, o.Status).Scan(&o.OrderDate, &o.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, product_image, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, it.ID, o.ID, it.ProductID, it.ProductName, it.ProductImage, it.Quantity, it.Price)
		if err != nil {
			return Order{}, fmt.Errorf("insert order_item: %w", err)
		}
	}

	// Decrement in product id order to keep the row lock order stable across checkouts.
	byProduct := slices.Clone(o.Items)
	slices.SortFunc(byProduct, func(a, b Item) int { return cmp.Compare(a.ProductID, b.ProductID) })
	for _, it := range byProduct {
		if err := decrementStock(ctx, tx, it); err != nil {
			return Order{}, err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart WHERE user_id = $1`, session.UserID); err != nil {
		return Order{}, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func lockCart(ctx context.Context, tx pgx.Tx, userID string) ([]cartLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT c.product_id, c.quantity, p.name, p.image_url, p.price, p.sale_price, p.is_on_sale
		FROM cart c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
		FOR UPDATE OF c
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart: %w", err)
	}
	defer rows.Close()

	var lines []cartLine
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.productID, &l.quantity, &l.name, &l.imageURL, &l.price, &l.salePrice, &l.isOnSale); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}

func decrementStock(ctx context.Context, tx pgx.Tx, it Item) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
	`, it.ProductID, it.Quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &InsufficientStockError{ProductID: it.ProductID, ProductName: it.ProductName, Requested: it.Quantity}
	}
	return nil
}

// IsInsufficientStock unwraps the failing line, if any.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr, true
	}
	return nil, false
}
