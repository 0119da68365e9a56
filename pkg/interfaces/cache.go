package interfaces

import (
	"context"
	"time"
)

// CacheProvider is the optional read-through cache consulted by repositories.
// A nil provider disables caching; no core path depends on hits.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
