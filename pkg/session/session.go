package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the server-side session identifier cookie
const CookieName = "session_id"

// DefaultIdleTimeout keeps the server session deliberately short-lived.
// The token pair, not the session, is the credential carrier.
const DefaultIdleTimeout = 180 * time.Second

// SessionService bounds the lifetime of the server-side session attached
// to the current request
type SessionService interface {
	// Bound creates or touches the session and caps its idle timeout
	Bound(w http.ResponseWriter, r *http.Request, idle time.Duration) error
}

// CookieSessionService implements SessionService with a session-id cookie
// whose Max-Age is the idle timeout
type CookieSessionService struct {
	path     string
	httpOnly bool
	secure   bool
	sameSite http.SameSite
}

// Option is a function that configures a CookieSessionService
type Option func(*CookieSessionService)

// WithCookieSecure sets the Secure flag on the session cookie
func WithCookieSecure(secure bool) Option {
	return func(s *CookieSessionService) {
		s.secure = secure
	}
}

// WithSameSite sets the SameSite attribute on the session cookie
func WithSameSite(sameSite http.SameSite) Option {
	return func(s *CookieSessionService) {
		s.sameSite = sameSite
	}
}

// NewCookieSessionService creates a new cookie-backed session service
func NewCookieSessionService(opts ...Option) *CookieSessionService {
	service := &CookieSessionService{
		path:     "/",
		httpOnly: true,
		secure:   true,
		sameSite: http.SameSiteNoneMode,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Bound reuses the inbound session identifier when present, otherwise
// mints one, and re-issues the cookie with Max-Age set to the idle timeout.
func (s *CookieSessionService) Bound(w http.ResponseWriter, r *http.Request, idle time.Duration) error {
	id := ""
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		id = cookie.Value
	}
	if id == "" {
		id = uuid.New().String()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     s.path,
		MaxAge:   int(idle.Seconds()),
		Expires:  time.Now().UTC().Add(idle),
		HttpOnly: s.httpOnly,
		Secure:   s.secure,
		SameSite: s.sameSite,
	})
	return nil
}
