package user

import "time"

// Account is a dashboard login. Credentials follow the source system's
// plaintext-equality contract: a single seeded admin account by default,
// overridable through configuration.
type Account struct {
	Username string
	Name     string
	Password string
}

// Principal identifies an authenticated request.
type Principal struct {
	Username string
	Name     string
}

// Session is an issued access token.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}
