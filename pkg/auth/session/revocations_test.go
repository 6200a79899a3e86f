package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) RevokedTokenKey(tokenID string) string {
	return "revoked:" + tokenID
}

func newTestRevocations(store *mockStore, now time.Time) *Revocations {
	return &Revocations{store: store, keyer: store, now: func() time.Time { return now }}
}

func TestRevokeAndCheck(t *testing.T) {
	store := newMockStore()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	revs := newTestRevocations(store, now)
	ctx := context.Background()

	if err := revs.Revoke(ctx, "jti-1", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if got := store.ttls["revoked:jti-1"]; got != 10*time.Minute {
		t.Fatalf("expected ttl to match remaining lifetime, got %s", got)
	}

	revoked, err := revs.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti-1 revoked, got %v %v", revoked, err)
	}
	revoked, err = revs.IsRevoked(ctx, "jti-2")
	if err != nil || revoked {
		t.Fatalf("expected jti-2 active, got %v %v", revoked, err)
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	store := newMockStore()
	now := time.Now()
	revs := newTestRevocations(store, now)

	if err := revs.Revoke(context.Background(), "old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(store.data) != 0 {
		t.Fatalf("expected nothing stored for expired token")
	}
	if err := revs.Revoke(context.Background(), " ", now.Add(time.Minute)); err == nil {
		t.Fatalf("expected error for blank token id")
	}
}
