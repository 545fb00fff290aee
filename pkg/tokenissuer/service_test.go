package tokenissuer

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfree/wayfree-auth/pkg/identity"
)

func newTestService(opts ...Option) *JwtTokenService {
	generator := NewJwtTokenGenerator("test-secret", "test-issuer", "test-audience")
	return NewJwtTokenService(generator, opts...)
}

func TestIssuePair(t *testing.T) {
	service := newTestService()

	pair, err := service.IssuePair(42, identity.RoleUser)
	require.NoError(t, err)

	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	assert.Equal(t, DefaultAccessTokenExpiry, pair.AccessTTL)
	assert.Equal(t, DefaultRefreshTokenExpiry, pair.RefreshTTL)

	if diff := time.Until(pair.AccessExpiry) - pair.AccessTTL; diff.Abs() > time.Minute {
		t.Errorf("access expiry off by %v", diff)
	}
	if diff := time.Until(pair.RefreshExpiry) - pair.RefreshTTL; diff.Abs() > time.Minute {
		t.Errorf("refresh expiry off by %v", diff)
	}
}

func TestIssuePairClaims(t *testing.T) {
	generator := NewJwtTokenGenerator("test-secret", "test-issuer", "test-audience")
	service := NewJwtTokenService(generator)

	pair, err := service.IssuePair(42, identity.RoleAdmin)
	require.NoError(t, err)

	for tokenStr, use := range map[string]string{
		pair.AccessToken:  TokenUseAccess,
		pair.RefreshToken: TokenUseRefresh,
	} {
		token, err := generator.ParseToken(tokenStr)
		require.NoError(t, err)
		require.True(t, token.Valid)

		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, "42", claims["sub"])
		assert.Equal(t, "test-issuer", claims["iss"])

		extra, ok := claims["extra_claims"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "ADMIN", extra[ClaimRole])
		assert.Equal(t, use, extra[ClaimTokenUse])
	}
}

func TestIssuePairNotIdempotent(t *testing.T) {
	service := newTestService()

	first, err := service.IssuePair(42, identity.RoleUser)
	require.NoError(t, err)
	second, err := service.IssuePair(42, identity.RoleUser)
	require.NoError(t, err)

	// Every login gets a fresh pair; the jti claim alone guarantees it.
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestIssuePairExpiryOptions(t *testing.T) {
	service := newTestService(
		WithAccessExpiry(2*time.Hour),
		WithRefreshExpiry(48*time.Hour),
	)

	pair, err := service.IssuePair(7, identity.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, pair.AccessTTL)
	assert.Equal(t, 48*time.Hour, pair.RefreshTTL)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	generator := NewJwtTokenGenerator("test-secret", "test-issuer", "test-audience")
	service := NewJwtTokenService(generator)

	pair, err := service.IssuePair(42, identity.RoleUser)
	require.NoError(t, err)

	other := NewJwtTokenGenerator("other-secret", "test-issuer", "test-audience")
	_, err = other.ParseToken(pair.AccessToken)
	assert.Error(t, err)
}
