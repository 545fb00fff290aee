package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wayfree/wayfree-auth/pkg/errors"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "auth_db.sql")),
		postgres.WithDatabase("auth_db"),
		postgres.WithUsername("auth"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestPostgresAccountRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresAccountRepository(pool)
	ctx := context.Background()

	t.Run("GetAccount", func(t *testing.T) {
		account, err := repo.GetAccount(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), account.ID)
		assert.Equal(t, "user@example.com", account.Email)
		assert.Empty(t, account.RefreshToken)
	})

	t.Run("GetAccountNotFound", func(t *testing.T) {
		_, err := repo.GetAccount(ctx, 9999)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeAccountNotFound))
	})

	t.Run("UpdateRefreshToken", func(t *testing.T) {
		require.NoError(t, repo.UpdateRefreshToken(ctx, 42, "R1"))

		account, err := repo.GetAccount(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "R1", account.RefreshToken)

		require.NoError(t, repo.UpdateRefreshToken(ctx, 42, "R2"))

		account, err = repo.GetAccount(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "R2", account.RefreshToken)
	})

	t.Run("UpdateRefreshTokenNotFound", func(t *testing.T) {
		err := repo.UpdateRefreshToken(ctx, 9999, "R1")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeAccountNotFound))
	})
}
