package ports

import (
	"context"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPointPlaced(ctx context.Context, p *domain.RecyclePoint) error
	PublishPointDeleted(ctx context.Context, p *domain.RecyclePoint) error
	PublishScorePending(ctx context.Context, credit *domain.ScoreCredit) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// SessionStore binds opaque session tokens to user identities.
type SessionStore interface {
	// Create stores the identity under a fresh random token and returns it.
	Create(ctx context.Context, identity domain.Identity) (string, error)

	// Resolve returns the identity behind a token, or domain.ErrUnauthorized
	// for an unknown or expired token.
	Resolve(ctx context.Context, token string) (*domain.Identity, error)

	// Destroy invalidates a token. Unknown tokens are not an error.
	Destroy(ctx context.Context, token string) error
}
