// Package local issues and verifies dashboard session tokens without an
// external identity provider. Accounts are seeded through configuration and
// sessions live in the in-process cache, which matches the single-instance
// deployment of the dashboard.
package local

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/user"
	"github.com/german-fros/tablero-api/internal/platform/cache"
	"github.com/german-fros/tablero-api/internal/platform/id"
	"github.com/german-fros/tablero-api/internal/platform/logging"
	"github.com/german-fros/tablero-api/internal/usecase"
)

// DefaultSessionTTL applies when the configuration leaves the TTL unset.
const DefaultSessionTTL = 12 * time.Hour

const sessionKeyPrefix = "session:"

type session struct {
	principal user.Principal
	expiresAt time.Time
}

// SessionManager stores issued sessions and implements the HTTP layer's
// token verifier. Expiry is checked against the manager's clock on every
// verification; the cache TTL only garbage-collects abandoned tokens.
type SessionManager struct {
	store  *cache.Store
	ids    id.Generator
	ttl    time.Duration
	clock  func() time.Time
	logger *logging.Logger
}

type SessionConfig struct {
	TTL   time.Duration
	Clock func() time.Time
}

func NewSessionManager(store *cache.Store, ids id.Generator, cfg SessionConfig, logger *logging.Logger) *SessionManager {
	if store == nil {
		store = cache.NewStore(DefaultSessionTTL, 0)
	}
	if ids == nil {
		ids = id.NewRandomGenerator(32)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SessionManager{
		store:  store,
		ids:    ids,
		ttl:    cfg.TTL,
		clock:  cfg.Clock,
		logger: logger.Named("sessions"),
	}
}

// Issue creates a session for an authenticated principal.
func (m *SessionManager) Issue(ctx context.Context, principal user.Principal) (user.Session, error) {
	token, err := m.ids.NewID()
	if err != nil {
		return user.Session{}, fmt.Errorf("issue session token: %w", err)
	}

	expiresAt := m.clock().Add(m.ttl)
	m.store.Set(ctx, sessionKeyPrefix+token, session{
		principal: principal,
		expiresAt: expiresAt,
	})

	m.logger.DebugContext(ctx, "session issued",
		"username", principal.Username,
		"expires_at", expiresAt,
	)

	return user.Session{
		Token:     token,
		Username:  principal.Username,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyAccessToken resolves a bearer token to its principal. Unknown and
// expired tokens both map to ErrUnauthorized so callers cannot distinguish
// the two cases.
func (m *SessionManager) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	value, ok := m.store.Get(ctx, sessionKeyPrefix+token)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown or expired session", usecase.ErrUnauthorized)
	}

	sess, ok := value.(session)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown or expired session", usecase.ErrUnauthorized)
	}
	if !sess.expiresAt.After(m.clock()) {
		m.store.Delete(ctx, sessionKeyPrefix+token)
		return user.Principal{}, fmt.Errorf("%w: unknown or expired session", usecase.ErrUnauthorized)
	}

	return sess.principal, nil
}

// Revoke removes a session. Revoking a token that was never issued, or was
// already revoked, is a no-op.
func (m *SessionManager) Revoke(ctx context.Context, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	m.store.Delete(ctx, sessionKeyPrefix+token)
}
