package flowstate

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wayfree/wayfree-auth/pkg/errors"
)

// Transient flow marker names. Each marker is single-use client-side state
// that must not outlive one login attempt.
const (
	// AuthRequestMarker holds the pending authorization request while the
	// client is away at the external provider.
	AuthRequestMarker = "oauth2_auth_request"

	// RedirectURIMarker holds the destination the client should return to
	// once the login completes.
	RedirectURIMarker = "redirect_uri"

	// StaleRefreshMarker is the refresh credential cookie left behind by a
	// previous login. Its content is opaque here; completion only checks
	// presence and deletes it before issuing a new pair.
	StaleRefreshMarker = "refresh-token"
)

// DefaultMarkerTTL bounds how long a flow marker stays readable
const DefaultMarkerTTL = 10 * time.Minute

// MarkerStore provides read, write and delete-by-name access to transient
// flow state carried on the client
type MarkerStore interface {
	// Write records a named marker with the given value and lifetime
	Write(w http.ResponseWriter, name, value string, ttl time.Duration) error

	// Read returns a marker's value. Absent markers yield a
	// MARKER_NOT_FOUND error; tampered or expired ones MARKER_INVALID.
	Read(r *http.Request, name string) (string, error)

	// Has reports whether a marker is present on the inbound request
	Has(r *http.Request, name string) bool

	// Clear deletes a marker so the client can no longer replay it
	Clear(w http.ResponseWriter, name string)
}

// CookieMarkerStore implements MarkerStore with signed state tokens in
// cookies. Values are wrapped in HS256-signed claims so a client cannot
// forge or swap marker contents.
type CookieMarkerStore struct {
	secret   string
	path     string
	httpOnly bool
	secure   bool
	sameSite http.SameSite
}

// StoreOption is a function that configures a CookieMarkerStore
type StoreOption func(*CookieMarkerStore)

// WithCookieSecure sets the Secure flag on marker cookies
func WithCookieSecure(secure bool) StoreOption {
	return func(s *CookieMarkerStore) {
		s.secure = secure
	}
}

// WithCookieHTTPOnly sets the HttpOnly flag on marker cookies
func WithCookieHTTPOnly(httpOnly bool) StoreOption {
	return func(s *CookieMarkerStore) {
		s.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute on marker cookies
func WithSameSite(sameSite http.SameSite) StoreOption {
	return func(s *CookieMarkerStore) {
		s.sameSite = sameSite
	}
}

// NewCookieMarkerStore creates a marker store signing values with the
// given secret. Markers default to path "/", HttpOnly, Secure and
// SameSite=None since the provider redirect arrives cross-site.
func NewCookieMarkerStore(secret string, opts ...StoreOption) *CookieMarkerStore {
	store := &CookieMarkerStore{
		secret:   secret,
		path:     "/",
		httpOnly: true,
		secure:   true,
		sameSite: http.SameSiteNoneMode,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Write records a named marker with the given value and lifetime
func (s *CookieMarkerStore) Write(w http.ResponseWriter, name, value string, ttl time.Duration) error {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": name,
		"val": value,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeInternal, "failed to sign flow marker %q", name)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    signed,
		Path:     s.path,
		MaxAge:   int(ttl.Seconds()),
		Expires:  now.Add(ttl),
		HttpOnly: s.httpOnly,
		Secure:   s.secure,
		SameSite: s.sameSite,
	})
	return nil
}

// Read returns a marker's value after verifying its signature and expiry
func (s *CookieMarkerStore) Read(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", errors.Newf(errors.ErrCodeMarkerNotFound, "flow marker %q is absent", name)
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.Wrapf(err, errors.ErrCodeMarkerInvalid, "flow marker %q failed verification", name)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.Newf(errors.ErrCodeMarkerInvalid, "flow marker %q carries no claims", name)
	}
	if sub, _ := claims["sub"].(string); sub != name {
		return "", errors.Newf(errors.ErrCodeMarkerInvalid, "flow marker %q was issued for %q", name, sub)
	}
	value, ok := claims["val"].(string)
	if !ok {
		return "", errors.Newf(errors.ErrCodeMarkerInvalid, "flow marker %q carries no value", name)
	}

	return value, nil
}

// Has reports whether a marker cookie is present on the inbound request
func (s *CookieMarkerStore) Has(r *http.Request, name string) bool {
	_, err := r.Cookie(name)
	return err == nil
}

// Clear deletes a marker cookie
func (s *CookieMarkerStore) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     s.path,
		MaxAge:   -1,
		HttpOnly: s.httpOnly,
		Secure:   s.secure,
		SameSite: s.sameSite,
	})
}
