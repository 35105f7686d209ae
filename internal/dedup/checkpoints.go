package dedup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor is satisfied by both the pgx pool and a pgx.Tx.
type Executor interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Decision is what a consumer should do with an incoming sequenced event.
type Decision int

const (
	Process Decision = iota
	Duplicate
	// Gap means one or more earlier sequences were never seen. The event is still processed.
	Gap
)

// Checkpoints tracks, per consumer and partition, the highest sequence already applied.
type Checkpoints struct {
	exec Executor
}

func NewCheckpoints(exec Executor) *Checkpoints {
	return &Checkpoints{exec: exec}
}

// In binds the checkpoints to a transaction so the checkpoint commits with the work it guards.
func (c *Checkpoints) In(tx Executor) *Checkpoints {
	return &Checkpoints{exec: tx}
}

func (c *Checkpoints) Last(ctx context.Context, consumer, partition string) (int64, bool, error) {
	var last int64
	err := c.exec.QueryRow(ctx, `
		SELECT last_sequence
		FROM event_dedup_checkpoint
		WHERE consumer_name = $1 AND partition_key = $2
	`, consumer, partition).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("select checkpoint: %w", err)
	}
	return last, true, nil
}

// Check classifies seq against the stored checkpoint. Unsequenced events (seq 0) are always processed.
func (c *Checkpoints) Check(ctx context.Context, consumer, partition string, seq int64) (Decision, int64, error) {
	if seq == 0 {
		return Process, 0, nil
	}
	last, ok, err := c.Last(ctx, consumer, partition)
	if err != nil {
		return Process, 0, err
	}
	switch {
	case !ok:
		return Process, 0, nil
	case seq <= last:
		return Duplicate, last, nil
	case seq > last+1:
		return Gap, last, nil
	default:
		return Process, last, nil
	}
}

// Advance moves the checkpoint forward. It never moves backwards, even under concurrent writers.
func (c *Checkpoints) Advance(ctx context.Context, consumer, partition string, seq int64) error {
	if seq == 0 {
		return nil
	}
	_, err := c.exec.Exec(ctx, `
		INSERT INTO event_dedup_checkpoint (consumer_name, partition_key, last_sequence)
		VALUES ($1, $2, $3)
		ON CONFLICT (consumer_name, partition_key)
		DO UPDATE SET
			last_sequence = GREATEST(event_dedup_checkpoint.last_sequence, EXCLUDED.last_sequence),
			updated_at = now()
	`, consumer, partition, seq)
	if err != nil {
		return fmt.Errorf("upsert checkpoint: %w", err)
	}
	return nil
}
