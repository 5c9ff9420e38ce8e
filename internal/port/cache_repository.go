package port

import (
	"context"

	"github.com/rl1809/stock-catalog/internal/core/domain"
)

type CacheRepository interface {
	// CacheRecord keeps the record line of an item for fast lookups
	CacheRecord(ctx context.Context, item domain.Item) error

	// CachedRecord returns the cached item, false on a miss
	CachedRecord(ctx context.Context, sku string) (domain.Item, bool, error)

	// InvalidateRecord drops a cached item after it changed
	InvalidateRecord(ctx context.Context, sku string) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
