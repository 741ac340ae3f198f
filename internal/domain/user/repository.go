package user

import "context"

// Repository looks up login accounts. A missing username is not an error:
// callers receive found=false and must answer with the same generic
// credentials failure as a wrong password.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (Account, bool, error)
}
