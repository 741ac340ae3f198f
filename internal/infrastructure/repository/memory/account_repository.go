package memory

import (
	"context"
	"sync"

	"github.com/german-fros/tablero-api/internal/domain/user"
)

// AccountRepository holds the configured dashboard accounts.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]user.Account
}

func NewAccountRepository(accounts []user.Account) *AccountRepository {
	index := make(map[string]user.Account, len(accounts))
	for _, a := range accounts {
		index[a.Username] = a
	}

	return &AccountRepository{accounts: index}
}

func (r *AccountRepository) GetByUsername(_ context.Context, username string) (user.Account, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[username]

	return a, ok, nil
}
