package events

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/s2311-del/shopease-india-connect/internal/cache"
	"github.com/s2311-del/shopease-india-connect/internal/dedup"
	"github.com/s2311-del/shopease-india-connect/internal/order"
)

// HandlerFunc processes one delivery. Returning an error NACKs the message without requeue.
type HandlerFunc func(ctx context.Context, body []byte) error

const StatusConsumerName = "storefront-order-status"

// OrderStatusChangedHandler applies fulfilment status updates. The status write and the
// dedup checkpoint commit together, so a redelivered event is applied at most once.
func OrderStatusChangedHandler(repo order.TransactionalRepository, checkpoints *dedup.Checkpoints, store cache.Store, logger *log.Logger, consumerName string) HandlerFunc {
	if store == nil {
		store = cache.Noop{}
	}
	return func(ctx context.Context, body []byte) error {
		msg, err := parseOrderStatusChanged(body)
		if err != nil {
			return err
		}
		status, err := order.ParseStatus(msg.Payload.Status)
		if err != nil {
			return err
		}

		partitionKey := msg.Envelope.PartitionKey
		seq := msg.Envelope.Sequence

		tx, err := repo.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		local := checkpoints.In(tx)

		decision, last, err := local.Check(ctx, consumerName, partitionKey, seq)
		if err != nil {
			return err
		}
		switch decision {
		case dedup.Duplicate:
			logger.Printf("skip duplicate orderId=%s partition=%s seq=%d last=%d", msg.Payload.OrderID, partitionKey, seq, last)
			return nil
		case dedup.Gap:
			logger.Printf("warning: sequence gap for partition=%s seq=%d last=%d", partitionKey, seq, last)
		}

		o, err := repo.UpdateStatusWithTx(ctx, tx, msg.Payload.OrderID, status)
		if err != nil {
			return fmt.Errorf("update status for order %s: %w", msg.Payload.OrderID, err)
		}

		if err := local.Advance(ctx, consumerName, partitionKey, seq); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit status update: %w", err)
		}

		logger.Printf("order status updated orderId=%s status=%s correlationId=%s", o.ID, o.Status, msg.Envelope.CorrelationID)
		if err := store.Invalidate(ctx, o.UserID, cache.NameOrders); err != nil {
			logger.Printf("invalidate orders cache user=%s: %v", o.UserID, err)
		}
		return nil
	}
}
