package account

import "time"

// Account is the durable account record. This service only ever mutates
// the RefreshToken field: each completed login overwrites it, so at most
// one refresh credential per account validates server-side at a time.
type Account struct {
	ID           int64
	Email        string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
