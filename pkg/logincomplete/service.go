package logincomplete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/wayfree/wayfree-auth/pkg/account"
	"github.com/wayfree/wayfree-auth/pkg/flowstate"
	"github.com/wayfree/wayfree-auth/pkg/identity"
	"github.com/wayfree/wayfree-auth/pkg/session"
	"github.com/wayfree/wayfree-auth/pkg/tokenissuer"
)

// Default transport attributes. The credential cookies are readable by
// the front end (not HttpOnly) and must survive the cross-site hop back
// from the provider, hence SameSite=None + Secure.
const (
	DefaultAccessCookieName  = "Access"
	DefaultRefreshCookieName = "Refresh"
	DefaultAuthHeaderName    = "Authorization"
	DefaultCookiePath        = "/"
	DefaultSessionIdle       = 180 * time.Second
)

// Completer orchestrates the final step of an external-provider login:
// resolve the confirmed identity, issue a credential pair, persist the
// refresh credential, clean up transient flow state, attach the new
// credentials to the response and redirect the client.
type Completer struct {
	services *ServiceDependencies
	settings *Settings
	executor *FlowExecutor
}

// Option is a function that configures a Completer
type Option func(*Completer)

// WithAccessCookieName overrides the access credential cookie name
func WithAccessCookieName(name string) Option {
	return func(c *Completer) {
		c.settings.AccessCookieName = name
	}
}

// WithRefreshCookieName overrides the refresh credential cookie name
func WithRefreshCookieName(name string) Option {
	return func(c *Completer) {
		c.settings.RefreshCookieName = name
	}
}

// WithAuthHeaderName overrides the response header (and redirect query
// parameter) carrying the access credential
func WithAuthHeaderName(name string) Option {
	return func(c *Completer) {
		c.settings.AuthHeaderName = name
	}
}

// WithSessionIdle overrides the idle timeout applied to the server-side
// session on successful completion
func WithSessionIdle(idle time.Duration) Option {
	return func(c *Completer) {
		if idle > 0 {
			c.settings.SessionIdle = idle
		}
	}
}

// WithCookieSecure sets the Secure flag on credential cookies
func WithCookieSecure(secure bool) Option {
	return func(c *Completer) {
		c.settings.CookieSecure = secure
	}
}

// WithCookieHTTPOnly sets the HttpOnly flag on credential cookies
func WithCookieHTTPOnly(httpOnly bool) Option {
	return func(c *Completer) {
		c.settings.CookieHTTPOnly = httpOnly
	}
}

// NewCompleter creates a login completer with the default step sequence
func NewCompleter(
	tokens tokenissuer.TokenService,
	accounts account.AccountRepository,
	markers flowstate.MarkerStore,
	sessions session.SessionService,
	opts ...Option,
) *Completer {
	completer := &Completer{
		services: &ServiceDependencies{
			Tokens:   tokens,
			Accounts: accounts,
			Markers:  markers,
			Sessions: sessions,
		},
		settings: &Settings{
			AccessCookieName:  DefaultAccessCookieName,
			RefreshCookieName: DefaultRefreshCookieName,
			AuthHeaderName:    DefaultAuthHeaderName,
			CookiePath:        DefaultCookiePath,
			CookieHTTPOnly:    false,
			CookieSecure:      true,
			CookieSameSite:    http.SameSiteNoneMode,
			SessionIdle:       DefaultSessionIdle,
		},
	}

	for _, opt := range opts {
		opt(completer)
	}

	registry := NewStepRegistry().
		AddStep(&ClearStaleRefreshStep{}).
		AddStep(&ResolveIdentityStep{}).
		AddStep(&ResolveDestinationStep{}).
		AddStep(&IssuePairStep{}).
		AddStep(&PersistRefreshStep{}).
		AddStep(&ClearFlowMarkersStep{}).
		AddStep(&TransportStep{}).
		AddStep(&BoundSessionStep{}).
		AddStep(&RedirectStep{})

	completer.executor = NewFlowExecutor(registry, completer.services, completer.settings)

	return completer
}

// Complete runs the completion sequence for one confirmed login. On
// success the response already carries the credential cookies, the access
// header and the redirect; on failure nothing issued in this attempt has
// been transported.
func (c *Completer) Complete(ctx context.Context, event identity.Confirmation, r *http.Request, w http.ResponseWriter) error {
	fc, err := c.executor.Execute(ctx, event, r, w)
	if err != nil {
		return err
	}

	slog.Info("Login completed",
		"provider", event.Provider,
		"account_id", fc.Identity.AccountID,
		"destination", fc.Destination)
	return nil
}
