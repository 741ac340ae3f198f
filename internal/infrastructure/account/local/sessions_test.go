package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/user"
	"github.com/german-fros/tablero-api/internal/platform/cache"
	"github.com/german-fros/tablero-api/internal/platform/logging"
	"github.com/german-fros/tablero-api/internal/usecase"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager(clock *manualClock, ttl time.Duration) *SessionManager {
	return NewSessionManager(
		cache.NewStore(0, 0),
		nil,
		SessionConfig{TTL: ttl, Clock: clock.Now},
		logging.NewNop(),
	)
}

func TestSessionManager_IssueThenVerify(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock, time.Hour)

	principal := user.Principal{Username: "admin", Name: "Cuerpo Técnico"}
	sess, err := manager.Issue(context.Background(), principal)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("expected a non-empty token")
	}
	if want := clock.Now().Add(time.Hour); !sess.ExpiresAt.Equal(want) {
		t.Fatalf("expires at = %v, want %v", sess.ExpiresAt, want)
	}

	got, err := manager.VerifyAccessToken(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if got != principal {
		t.Fatalf("principal = %+v, want %+v", got, principal)
	}
}

func TestSessionManager_TokensAreUnique(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock, time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		sess, err := manager.Issue(context.Background(), user.Principal{Username: "admin"})
		if err != nil {
			t.Fatalf("issue session %d: %v", i, err)
		}
		if seen[sess.Token] {
			t.Fatalf("token %q issued twice", sess.Token)
		}
		seen[sess.Token] = true
	}
}

func TestSessionManager_ExpiredSessionIsRejected(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock, time.Hour)

	sess, err := manager.Issue(context.Background(), user.Principal{Username: "admin"})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	clock.Advance(time.Hour + time.Second)

	_, err = manager.VerifyAccessToken(context.Background(), sess.Token)
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired session, got %v", err)
	}
}

func TestSessionManager_UnknownAndEmptyTokens(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock, time.Hour)

	if _, err := manager.VerifyAccessToken(context.Background(), "no-such-token"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown token, got %v", err)
	}
	if _, err := manager.VerifyAccessToken(context.Background(), "   "); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for blank token, got %v", err)
	}
}

func TestSessionManager_RevokeIsIdempotent(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	manager := newTestManager(clock, time.Hour)

	sess, err := manager.Issue(context.Background(), user.Principal{Username: "admin"})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	manager.Revoke(context.Background(), sess.Token)
	if _, err := manager.VerifyAccessToken(context.Background(), sess.Token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after revoke, got %v", err)
	}

	// Second revoke of the same token and revoking garbage are both no-ops.
	manager.Revoke(context.Background(), sess.Token)
	manager.Revoke(context.Background(), "never-issued")
}
