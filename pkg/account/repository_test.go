package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfree/wayfree-auth/pkg/errors"
)

func TestInMemoryGetAccount(t *testing.T) {
	repo := NewInMemoryAccountRepository()
	repo.AddAccount(Account{ID: 42, Email: "user@example.com"})

	ctx := context.Background()

	account, err := repo.GetAccount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), account.ID)
	assert.Equal(t, "user@example.com", account.Email)
	assert.Empty(t, account.RefreshToken)

	_, err = repo.GetAccount(ctx, 99)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestInMemoryUpdateRefreshToken(t *testing.T) {
	repo := NewInMemoryAccountRepository()
	repo.AddAccount(Account{ID: 42, Email: "user@example.com"})

	ctx := context.Background()

	require.NoError(t, repo.UpdateRefreshToken(ctx, 42, "R1"))
	account, err := repo.GetAccount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "R1", account.RefreshToken)

	// A later login overwrites the previous credential.
	require.NoError(t, repo.UpdateRefreshToken(ctx, 42, "R2"))
	account, err = repo.GetAccount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "R2", account.RefreshToken)
}

func TestInMemoryUpdateRefreshTokenUnknownAccount(t *testing.T) {
	repo := NewInMemoryAccountRepository()

	err := repo.UpdateRefreshToken(context.Background(), 99, "R1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAccountNotFound))
}

func TestInMemoryGetAccountReturnsCopy(t *testing.T) {
	repo := NewInMemoryAccountRepository()
	repo.AddAccount(Account{ID: 42, Email: "user@example.com"})

	ctx := context.Background()

	account, err := repo.GetAccount(ctx, 42)
	require.NoError(t, err)
	account.RefreshToken = "mutated"

	stored, err := repo.GetAccount(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)
}
