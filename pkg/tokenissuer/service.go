package tokenissuer

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/wayfree/wayfree-auth/pkg/errors"
	"github.com/wayfree/wayfree-auth/pkg/identity"
)

// Default credential lifetimes
const (
	DefaultAccessTokenExpiry  = 30 * time.Minute
	DefaultRefreshTokenExpiry = 14 * 24 * time.Hour
)

// Claim names carried by issued credentials
const (
	ClaimRole     = "role"
	ClaimTokenUse = "token_use"
)

// Token use values
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// TokenPair is the credential pair issued once per login. The access
// credential is never persisted server-side; the refresh credential is
// stored against the account record.
type TokenPair struct {
	AccessToken   string
	AccessTTL     time.Duration
	AccessExpiry  time.Time
	RefreshToken  string
	RefreshTTL    time.Duration
	RefreshExpiry time.Time
}

// TokenService issues credential pairs for resolved identities
type TokenService interface {
	// IssuePair produces a signed access and refresh credential for the
	// given account and role, each carrying its own expiry
	IssuePair(accountID int64, role identity.Role) (TokenPair, error)
}

// JwtTokenService implements TokenService on top of a TokenGenerator.
// Signing is in-process; issuance is never retried.
type JwtTokenService struct {
	accessGenerator  TokenGenerator
	refreshGenerator TokenGenerator
	accessExpiry     time.Duration
	refreshExpiry    time.Duration
}

// Option is a function that configures a JwtTokenService
type Option func(*JwtTokenService)

// WithAccessExpiry sets the access credential lifetime
func WithAccessExpiry(expiry time.Duration) Option {
	return func(s *JwtTokenService) {
		if expiry > 0 {
			s.accessExpiry = expiry
		}
	}
}

// WithRefreshExpiry sets the refresh credential lifetime
func WithRefreshExpiry(expiry time.Duration) Option {
	return func(s *JwtTokenService) {
		if expiry > 0 {
			s.refreshExpiry = expiry
		}
	}
}

// WithRefreshGenerator overrides the generator used for refresh
// credentials. Use this when refresh tokens are signed with a different
// key or issuer than access tokens.
func WithRefreshGenerator(generator TokenGenerator) Option {
	return func(s *JwtTokenService) {
		s.refreshGenerator = generator
	}
}

// NewJwtTokenService creates a new token service backed by the given generator
func NewJwtTokenService(generator TokenGenerator, opts ...Option) *JwtTokenService {
	service := &JwtTokenService{
		accessGenerator:  generator,
		refreshGenerator: generator,
		accessExpiry:     DefaultAccessTokenExpiry,
		refreshExpiry:    DefaultRefreshTokenExpiry,
	}

	for _, opt := range opts {
		opt(service)
	}

	slog.Info("Token service configured",
		"accessTokenExpiry", service.accessExpiry,
		"refreshTokenExpiry", service.refreshExpiry)

	return service
}

// IssuePair issues a fresh credential pair. Two calls for the same account
// always produce distinct pairs; the previous refresh credential is
// superseded by whoever persists last.
func (s *JwtTokenService) IssuePair(accountID int64, role identity.Role) (TokenPair, error) {
	subject := strconv.FormatInt(accountID, 10)

	access, accessExpiry, err := s.accessGenerator.GenerateToken(subject, s.accessExpiry, map[string]interface{}{
		ClaimRole:     string(role),
		ClaimTokenUse: TokenUseAccess,
	})
	if err != nil {
		return TokenPair{}, errors.Wrap(err, errors.ErrCodeIssuanceFailed, "failed to sign access credential")
	}

	refresh, refreshExpiry, err := s.refreshGenerator.GenerateToken(subject, s.refreshExpiry, map[string]interface{}{
		ClaimRole:     string(role),
		ClaimTokenUse: TokenUseRefresh,
	})
	if err != nil {
		return TokenPair{}, errors.Wrap(err, errors.ErrCodeIssuanceFailed, "failed to sign refresh credential")
	}

	return TokenPair{
		AccessToken:   access,
		AccessTTL:     s.accessExpiry,
		AccessExpiry:  accessExpiry,
		RefreshToken:  refresh,
		RefreshTTL:    s.refreshExpiry,
		RefreshExpiry: refreshExpiry,
	}, nil
}
