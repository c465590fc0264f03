package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ReceiptCache implements ports.ReceiptCache using Redis. It holds the
// canonical receipt already accepted per invoice, so a replayed proof
// short-circuits before touching the database.
type ReceiptCache struct {
	client *goredis.Client
	prefix string
}

// NewReceiptCache creates a new Redis-backed receipt cache.
func NewReceiptCache(client *goredis.Client) *ReceiptCache {
	return &ReceiptCache{
		client: client,
		prefix: "receipt:",
	}
}

// Get retrieves the cached canonical receipt for an invoice.
// Returns nil, nil if the key does not exist.
func (c *ReceiptCache) Get(ctx context.Context, invoiceID string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+invoiceID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis receipt get: %w", err)
	}
	return val, nil
}

// Set stores the canonical receipt for an invoice with TTL.
func (c *ReceiptCache) Set(ctx context.Context, invoiceID string, receipt []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+invoiceID, receipt, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis receipt set: %w", err)
	}
	return nil
}
