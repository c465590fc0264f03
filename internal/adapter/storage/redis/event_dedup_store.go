package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// EventDedupStore implements ports.EventDedupStore using Redis SET NX.
// Relays deliver at least once; this store makes sure one event id
// drives at most one reconciliation.
type EventDedupStore struct {
	client *goredis.Client
	prefix string
}

// NewEventDedupStore creates a new Redis-backed event dedup store.
func NewEventDedupStore(client *goredis.Client) *EventDedupStore {
	return &EventDedupStore{
		client: client,
		prefix: "event:",
	}
}

// CheckAndSet atomically checks if an event id was seen, records it if
// not. Returns true if the id is new.
func (s *EventDedupStore) CheckAndSet(ctx context.Context, scope string, eventID string, ttl time.Duration) (bool, error) {
	key := s.prefix + scope + ":" + eventID
	result, err := s.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — event was already reconciled
			return false, nil
		}
		return false, fmt.Errorf("redis event dedup check: %w", err)
	}
	return result == "OK", nil
}
