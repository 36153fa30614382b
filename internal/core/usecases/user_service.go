package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/core/ports"
)

// Handle rules enforced at registration.
var nameRe = regexp.MustCompile(`^[a-z0-9_]+$`)

const (
	minNameLen = 3
	maxNameLen = 30
)

// UserService owns user registration and the score ledger.
type UserService struct {
	users ports.UserRepository
	cache ports.CacheService
}

// NewUserService creates a new UserService.
func NewUserService(users ports.UserRepository, cache ports.CacheService) *UserService {
	return &UserService{users: users, cache: cache}
}

// NormalizeName trims and lowercases a handle; it is the uniqueness key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateName(name string) (string, error) {
	n := NormalizeName(name)
	if n == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(n) < minNameLen || len(n) > maxNameLen {
		return "", fmt.Errorf("%w: name must be %d-%d characters", domain.ErrValidation, minNameLen, maxNameLen)
	}
	if !nameRe.MatchString(n) {
		return "", fmt.Errorf("%w: name may contain only letters, digits and underscores", domain.ErrValidation)
	}
	return n, nil
}

// Register creates a new user with score 0. Returns domain.ErrConflict when
// the normalized name is taken.
func (s *UserService) Register(ctx context.Context, name string) (*domain.User, error) {
	n, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, n)
}

// GetByName returns a user's public profile, or domain.ErrNotFound.
func (s *UserService) GetByName(ctx context.Context, name string) (*domain.User, error) {
	n := NormalizeName(name)
	if n == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	cacheKey := "users:name:" + n
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var u domain.User
			if err := json.Unmarshal(data, &u); err == nil {
				return &u, nil
			}
		}
	}

	u, err := s.users.GetByName(ctx, n)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(u); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return u, nil
}

// FindOrCreate returns the user for a name, creating it with score 0 when
// absent. Concurrent calls for the same normalized name yield one record.
func (s *UserService) FindOrCreate(ctx context.Context, name string) (*domain.User, error) {
	n, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.users.FindOrCreate(ctx, n)
}

// Credit atomically adds amount to a user's score, creating the user when
// absent, and returns the post-increment user.
func (s *UserService) Credit(ctx context.Context, name string, amount int64) (*domain.User, error) {
	n, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative", domain.ErrValidation)
	}

	u, err := s.users.IncrementScore(ctx, n, amount)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, n)
	return u, nil
}

// CreditForPoint credits amount at most once per point ID, so a retried
// partial failure cannot double-credit.
func (s *UserService) CreditForPoint(ctx context.Context, pointID, name string, amount int64) (*domain.User, error) {
	n := NormalizeName(name)
	if pointID == "" || n == "" {
		return nil, fmt.Errorf("%w: point id and name are required", domain.ErrValidation)
	}

	u, err := s.users.CreditForPoint(ctx, pointID, n, amount)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, n)
	return u, nil
}

// Leaderboard returns up to limit users by descending score.
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 25
	}
	if limit > 100 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("users:top:%d", limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var users []domain.User
			if err := json.Unmarshal(data, &users); err == nil {
				return users, nil
			}
		}
	}

	users, err := s.users.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(users); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return users, nil
}

func (s *UserService) invalidate(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, "users:name:"+name)
}
