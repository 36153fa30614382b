package ports

import (
	"context"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

// UserRepository persists users and their score ledger. All name parameters
// are expected pre-normalized (trimmed, lowercased) by the caller.
type UserRepository interface {
	// Create inserts a new user with score 0. Returns domain.ErrConflict
	// when the normalized name is already taken.
	Create(ctx context.Context, name string) (*domain.User, error)

	// GetByName returns a user or domain.ErrNotFound.
	GetByName(ctx context.Context, name string) (*domain.User, error)

	// FindOrCreate returns the existing user or atomically creates one with
	// score 0. Safe under concurrent calls for the same name.
	FindOrCreate(ctx context.Context, name string) (*domain.User, error)

	// IncrementScore atomically adds amount to the user's score, creating
	// the user with score = amount when absent. Returns the post-increment
	// user.
	IncrementScore(ctx context.Context, name string, amount int64) (*domain.User, error)

	// CreditForPoint credits amount at most once per point ID. Retrying a
	// failed credit can never double-count. Returns the user after the
	// credit (unchanged when the credit was already applied).
	CreditForPoint(ctx context.Context, pointID, name string, amount int64) (*domain.User, error)

	// Top returns up to limit users ordered by score descending.
	Top(ctx context.Context, limit int) ([]domain.User, error)
}

// PointRepository persists recycling points.
type PointRepository interface {
	// Insert persists a new point. The caller assigns the ID; the store
	// stamps CreatedAt.
	Insert(ctx context.Context, p *domain.RecyclePoint) error

	// ListAll returns every point with the owner's display name resolved.
	// Order is unspecified.
	ListAll(ctx context.Context) ([]domain.RecyclePoint, error)

	// DeleteByID removes one point by identifier, returning it, or
	// domain.ErrNotFound.
	DeleteByID(ctx context.Context, id string) (*domain.RecyclePoint, error)

	// DeleteByCoordinate removes at most one point whose coordinates match
	// within eps degrees, returning it, or domain.ErrNotFound. The oldest
	// match wins when several points coincide.
	DeleteByCoordinate(ctx context.Context, lat, lng, eps float64) (*domain.RecyclePoint, error)

	// DeleteAllByOwner removes every point owned by the user and returns the
	// number removed. Zero points is not an error.
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}
