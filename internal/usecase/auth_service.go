package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/german-fros/tablero-api/internal/domain/user"
	"github.com/german-fros/tablero-api/internal/platform/logging"
)

// sessionManager is the session half of the login wall: issuing, checking
// and revoking bearer tokens.
type sessionManager interface {
	Issue(ctx context.Context, principal user.Principal) (user.Session, error)
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
	Revoke(ctx context.Context, token string)
}

type AuthService struct {
	accounts user.Repository
	sessions sessionManager
	logger   *logging.Logger
}

func NewAuthService(accounts user.Repository, sessions sessionManager, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		logger:   logger.Named("auth"),
	}
}

// Login checks the credentials and opens a session. Unknown users and wrong
// passwords yield the same generic error, so the response never reveals
// whether an account exists. Accounts store plaintext passwords; equality
// is the whole check.
func (s *AuthService) Login(ctx context.Context, username, password string) (user.Session, user.Principal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return user.Session{}, user.Principal{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	account, exists, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return user.Session{}, user.Principal{}, fmt.Errorf("get account by username: %w", err)
	}
	if !exists || account.Password != password {
		s.logger.WarnContext(ctx, "login rejected", "username", username)
		return user.Session{}, user.Principal{}, fmt.Errorf("%w: credenciales incorrectas", ErrUnauthorized)
	}

	principal := user.Principal{Username: account.Username, Name: account.Name}
	session, err := s.sessions.Issue(ctx, principal)
	if err != nil {
		return user.Session{}, user.Principal{}, fmt.Errorf("issue session: %w", err)
	}

	s.logger.InfoContext(ctx, "login accepted", "username", username)

	return session, principal, nil
}

// Logout revokes the session. Blank and unknown tokens are no-ops, so the
// operation is safe to repeat.
func (s *AuthService) Logout(ctx context.Context, token string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Logout")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return
	}

	s.sessions.Revoke(ctx, token)
	s.logger.DebugContext(ctx, "session revoked")
}

// VerifyAccessToken resolves a bearer token to its principal. The HTTP
// middleware uses the service as its token verifier.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.VerifyAccessToken")
	defer span.End()

	return s.sessions.VerifyAccessToken(ctx, token)
}
