// Package session tracks signed-out access tokens until they expire.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/hillview-school/school-cms/pkg/redis"
)

type revocationStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type revocationKeyer interface {
	RevokedTokenKey(tokenID string) string
}

// Revocations is a Redis-backed deny list keyed by token id (jti).
type Revocations struct {
	store revocationStore
	keyer revocationKeyer
	now   func() time.Time
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func NewRevocations(client *redisclient.Client) (*Revocations, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Revocations{store: client, keyer: client, now: time.Now}, nil
}

// Revoke denies tokenID until expiresAt. Already expired tokens are ignored.
func (r *Revocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.store.Set(ctx, r.keyer.RevokedTokenKey(tokenID), "1", ttl)
}

func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if strings.TrimSpace(tokenID) == "" {
		return false, nil
	}
	return r.store.Exists(ctx, r.keyer.RevokedTokenKey(tokenID))
}
