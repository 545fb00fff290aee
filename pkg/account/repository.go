package account

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/wayfree/wayfree-auth/pkg/errors"
)

// AccountRepository defines the interface for account-related storage
// operations consumed by the login completion flow
type AccountRepository interface {
	// GetAccount retrieves an account by identifier
	GetAccount(ctx context.Context, id int64) (Account, error)

	// UpdateRefreshToken overwrites the account's stored refresh
	// credential with the given value
	UpdateRefreshToken(ctx context.Context, id int64, token string) error
}

// InMemoryAccountRepository implements AccountRepository using in-memory storage
type InMemoryAccountRepository struct {
	accounts map[int64]*Account
	mutex    sync.RWMutex
}

// NewInMemoryAccountRepository creates a new in-memory repository
func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts: make(map[int64]*Account),
	}
}

// AddAccount seeds an account record
func (r *InMemoryAccountRepository) AddAccount(account Account) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.UpdatedAt = account.CreatedAt
	accountCopy := account
	r.accounts[account.ID] = &accountCopy
}

// GetAccount retrieves an account by identifier
func (r *InMemoryAccountRepository) GetAccount(ctx context.Context, id int64) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return Account{}, errors.NotFound("account", strconv.FormatInt(id, 10))
	}

	// Return a copy to prevent external modifications
	accountCopy := *account
	return accountCopy, nil
}

// UpdateRefreshToken overwrites the stored refresh credential. Concurrent
// logins for the same account race here; last writer wins.
func (r *InMemoryAccountRepository) UpdateRefreshToken(ctx context.Context, id int64, token string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return errors.Newf(errors.ErrCodeAccountNotFound, "account not found: %d", id)
	}

	account.RefreshToken = token
	account.UpdatedAt = time.Now().UTC()
	return nil
}
