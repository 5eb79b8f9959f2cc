package integration

import (
	"context"
	"time"
)

// IdempotencyStore suppresses repeat processing of the same externally
// observed business event. MarkProcessed is the single atomic check-and-mark:
// two concurrent callers for the same key must not both observe true, even
// when the store is shared across processes.
type IdempotencyStore interface {
	// MarkProcessed records key as processed for ttl. It returns true when
	// the key was newly marked and false when it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// IsProcessed reports whether key is currently marked.
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Close releases any resources held by the store.
	Close() error
}
