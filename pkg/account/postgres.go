package account

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wayfree/wayfree-auth/pkg/errors"
)

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgreSQL-based account repository
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		pool: pool,
	}
}

const getAccountQuery = `
SELECT id, email, refresh_token, created_at, updated_at
FROM account
WHERE id = $1
`

// GetAccount retrieves an account by identifier
func (r *PostgresAccountRepository) GetAccount(ctx context.Context, id int64) (Account, error) {
	var account Account
	var refreshToken sql.NullString

	row := r.pool.QueryRow(ctx, getAccountQuery, id)
	err := row.Scan(&account.ID, &account.Email, &refreshToken, &account.CreatedAt, &account.UpdatedAt)
	if err == pgx.ErrNoRows {
		return Account{}, errors.Newf(errors.ErrCodeAccountNotFound, "account not found: %d", id)
	}
	if err != nil {
		return Account{}, errors.Wrapf(err, errors.ErrCodeInternal, "failed to load account %d", id)
	}

	if refreshToken.Valid {
		account.RefreshToken = refreshToken.String
	}
	return account, nil
}

const updateRefreshTokenQuery = `
UPDATE account
SET refresh_token = $2, updated_at = now()
WHERE id = $1
`

// UpdateRefreshToken overwrites the stored refresh credential. The single
// UPDATE is the whole mutation, so concurrent logins for the same account
// resolve to last-writer-wins without explicit locking.
func (r *PostgresAccountRepository) UpdateRefreshToken(ctx context.Context, id int64, token string) error {
	tag, err := r.pool.Exec(ctx, updateRefreshTokenQuery, id, token)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeInternal, "failed to store refresh credential for account %d", id)
	}
	if tag.RowsAffected() == 0 {
		return errors.Newf(errors.ErrCodeAccountNotFound, "account not found: %d", id)
	}
	return nil
}
