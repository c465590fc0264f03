package postgres

import (
	"context"
	"fmt"
)

// OrderFlagRepo implements ports.OrderFlagRepository. Cancellation is a
// sticky per-order flag; it never clears once set.
type OrderFlagRepo struct {
	pool Pool
}

// NewOrderFlagRepo creates a new OrderFlagRepo.
func NewOrderFlagRepo(pool Pool) *OrderFlagRepo {
	return &OrderFlagRepo{pool: pool}
}

// SetCancelled marks an order cancelled. Re-setting is a no-op.
func (r *OrderFlagRepo) SetCancelled(ctx context.Context, orderID string) error {
	query := `INSERT INTO order_flags (order_id, cancelled, updated_at)
		VALUES ($1, TRUE, NOW())
		ON CONFLICT (order_id) DO UPDATE SET cancelled = TRUE, updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, orderID)
	if err != nil {
		return fmt.Errorf("set order cancelled: %w", err)
	}
	return nil
}

// IsCancelled reports whether an order carries the cancellation flag.
func (r *OrderFlagRepo) IsCancelled(ctx context.Context, orderID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM order_flags WHERE order_id = $1 AND cancelled)`

	var cancelled bool
	if err := r.pool.QueryRow(ctx, query, orderID).Scan(&cancelled); err != nil {
		return false, fmt.Errorf("check order cancelled: %w", err)
	}
	return cancelled, nil
}
