package valkey

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

const sessionPrefix = "session:"

// Sessions implements ports.SessionStore on Valkey. Tokens are opaque
// 128-bit random values; the bound identity expires with the key TTL.
type Sessions struct {
	client valkey.Client
	ttl    time.Duration
}

// NewSessions builds a session store sharing the cache's Valkey client.
func NewSessions(cache *Cache, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{client: cache.client, ttl: ttl}
}

// Create stores the identity under a fresh token and returns the token.
func (s *Sessions) Create(ctx context.Context, identity domain.Identity) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}

	cmd := s.client.Do(ctx,
		s.client.B().Set().Key(sessionPrefix+token).Value(string(data)).Ex(s.ttl).Build(),
	)
	if cmd.Error() != nil {
		return "", fmt.Errorf("store session: %w", cmd.Error())
	}
	return token, nil
}

// Resolve maps a token back to its identity, refreshing the TTL on use so
// active sessions stay alive.
func (s *Sessions) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	cmd := s.client.Do(ctx,
		s.client.B().Getex().Key(sessionPrefix+token).Ex(s.ttl).Build(),
	)
	if cmd.Error() != nil {
		if valkey.IsValkeyNil(cmd.Error()) {
			return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("resolve session: %w", cmd.Error())
	}

	data, err := cmd.AsBytes()
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	var id domain.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &id, nil
}

// Destroy invalidates a token. Deleting an unknown token is a no-op.
func (s *Sessions) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	cmd := s.client.Do(ctx, s.client.B().Del().Key(sessionPrefix+token).Build())
	return cmd.Error()
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
