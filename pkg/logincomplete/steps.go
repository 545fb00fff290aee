package logincomplete

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wayfree/wayfree-auth/pkg/errors"
	"github.com/wayfree/wayfree-auth/pkg/flowstate"
	"github.com/wayfree/wayfree-auth/pkg/identity"
)

// Step ordering. Gaps leave room for deployments to slot custom steps in
// between the built-in ones.
const (
	OrderClearStaleRefresh  = 10
	OrderResolveIdentity    = 20
	OrderResolveDestination = 30
	OrderIssuePair          = 40
	OrderPersistRefresh     = 50
	OrderClearFlowMarkers   = 60
	OrderTransport          = 70
	OrderBoundSession       = 80
	OrderRedirect           = 90
)

// ClearStaleRefreshStep deletes the refresh credential left behind by a
// previous login so an orphaned or compromised credential cannot persist
// client-side once superseded.
type ClearStaleRefreshStep struct{}

func (s *ClearStaleRefreshStep) Name() string { return "clear_stale_refresh" }
func (s *ClearStaleRefreshStep) Order() int   { return OrderClearStaleRefresh }

func (s *ClearStaleRefreshStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return !fc.Services.Markers.Has(fc.Request, flowstate.StaleRefreshMarker)
}

func (s *ClearStaleRefreshStep) Execute(ctx context.Context, fc *FlowContext) error {
	fc.Services.Markers.Clear(fc.Response, flowstate.StaleRefreshMarker)
	return nil
}

// ResolveIdentityStep projects the confirmation's attribute map into a
// typed identity. Fails closed when the map is absent or malformed.
type ResolveIdentityStep struct{}

func (s *ResolveIdentityStep) Name() string { return "resolve_identity" }
func (s *ResolveIdentityStep) Order() int   { return OrderResolveIdentity }

func (s *ResolveIdentityStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *ResolveIdentityStep) Execute(ctx context.Context, fc *FlowContext) error {
	resolved, err := identity.ParseIdentity(fc.Event.Attributes)
	if err != nil {
		return err
	}

	fc.Identity = &resolved
	fc.State = StateIdentityResolved
	return nil
}

// ResolveDestinationStep reads the redirect destination recorded when the
// flow started. It runs before any storage mutation: when no destination
// was ever recorded the flow cannot complete, and aborting here leaves the
// account record untouched.
type ResolveDestinationStep struct{}

func (s *ResolveDestinationStep) Name() string { return "resolve_destination" }
func (s *ResolveDestinationStep) Order() int   { return OrderResolveDestination }

func (s *ResolveDestinationStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *ResolveDestinationStep) Execute(ctx context.Context, fc *FlowContext) error {
	destination, err := fc.Services.Markers.Read(fc.Request, flowstate.RedirectURIMarker)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMissingDestination, "redirect destination was never recorded")
	}
	if destination == "" {
		return errors.New(errors.ErrCodeMissingDestination, "redirect destination is empty")
	}

	fc.Destination = destination
	fc.State = StateDestinationResolved
	return nil
}

// IssuePairStep asks the token issuer for a fresh credential pair.
// Issuance is in-process signing, so no retry is attempted.
type IssuePairStep struct{}

func (s *IssuePairStep) Name() string { return "issue_pair" }
func (s *IssuePairStep) Order() int   { return OrderIssuePair }

func (s *IssuePairStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *IssuePairStep) Execute(ctx context.Context, fc *FlowContext) error {
	pair, err := fc.Services.Tokens.IssuePair(fc.Identity.AccountID, fc.Identity.Role)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIssuanceFailed, "token issuer could not produce a credential pair")
	}

	fc.Pair = &pair
	fc.State = StateIssued
	return nil
}

// PersistRefreshStep overwrites the account's stored refresh credential.
// This is the hard gate of the flow: a failure here must prevent every
// later response write, otherwise the client would hold a refresh
// credential the server never stored.
type PersistRefreshStep struct{}

func (s *PersistRefreshStep) Name() string { return "persist_refresh" }
func (s *PersistRefreshStep) Order() int   { return OrderPersistRefresh }

func (s *PersistRefreshStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *PersistRefreshStep) Execute(ctx context.Context, fc *FlowContext) error {
	err := fc.Services.Accounts.UpdateRefreshToken(ctx, fc.Identity.AccountID, fc.Pair.RefreshToken)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodePersistenceFailed,
			"failed to store refresh credential for account %d", fc.Identity.AccountID)
	}

	fc.State = StatePersisted
	return nil
}

// ClearFlowMarkersStep deletes the single-use flow markers so a replayed
// or stale request cannot reuse state from a completed login.
type ClearFlowMarkersStep struct{}

func (s *ClearFlowMarkersStep) Name() string { return "clear_flow_markers" }
func (s *ClearFlowMarkersStep) Order() int   { return OrderClearFlowMarkers }

func (s *ClearFlowMarkersStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *ClearFlowMarkersStep) Execute(ctx context.Context, fc *FlowContext) error {
	fc.Services.Markers.Clear(fc.Response, flowstate.AuthRequestMarker)
	fc.Services.Markers.Clear(fc.Response, flowstate.RedirectURIMarker)
	fc.State = StateCleaned
	return nil
}

// TransportStep attaches the new credential pair to the response: one
// access cookie, one refresh cookie, and the access credential again as a
// plain header for clients that read it off the response directly.
type TransportStep struct{}

func (s *TransportStep) Name() string { return "transport" }
func (s *TransportStep) Order() int   { return OrderTransport }

func (s *TransportStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *TransportStep) Execute(ctx context.Context, fc *FlowContext) error {
	settings := fc.Settings
	pair := fc.Pair

	http.SetCookie(fc.Response, &http.Cookie{
		Name:     settings.AccessCookieName,
		Value:    pair.AccessToken,
		Path:     settings.CookiePath,
		MaxAge:   int(pair.AccessTTL.Seconds()),
		Expires:  pair.AccessExpiry,
		HttpOnly: settings.CookieHTTPOnly,
		Secure:   settings.CookieSecure,
		SameSite: settings.CookieSameSite,
	})

	http.SetCookie(fc.Response, &http.Cookie{
		Name:     settings.RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     settings.CookiePath,
		MaxAge:   int(pair.RefreshTTL.Seconds()),
		Expires:  pair.RefreshExpiry,
		HttpOnly: settings.CookieHTTPOnly,
		Secure:   settings.CookieSecure,
		SameSite: settings.CookieSameSite,
	})

	fc.Response.Header().Set(settings.AuthHeaderName, pair.AccessToken)

	fc.State = StateTransported
	return nil
}

// BoundSessionStep caps the server-side session's idle timeout. The token
// pair is the credential carrier; the session stays short-lived so the two
// never diverge on expiry policy.
type BoundSessionStep struct{}

func (s *BoundSessionStep) Name() string { return "bound_session" }
func (s *BoundSessionStep) Order() int   { return OrderBoundSession }

func (s *BoundSessionStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return fc.Services.Sessions == nil
}

func (s *BoundSessionStep) Execute(ctx context.Context, fc *FlowContext) error {
	if err := fc.Services.Sessions.Bound(fc.Response, fc.Request, fc.Settings.SessionIdle); err != nil {
		return errors.Wrap(err, errors.ErrCodeTransportFailed, "failed to bound session")
	}
	return nil
}

// RedirectStep sends the client back to its recorded destination with the
// access credential attached as a query parameter, so landing pages served
// as static front ends can pick it off the URL.
type RedirectStep struct{}

func (s *RedirectStep) Name() string { return "redirect" }
func (s *RedirectStep) Order() int   { return OrderRedirect }

func (s *RedirectStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *RedirectStep) Execute(ctx context.Context, fc *FlowContext) error {
	target, err := url.Parse(fc.Destination)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeTransportFailed, "recorded destination is not a valid URL")
	}

	query := target.Query()
	query.Set(fc.Settings.AuthHeaderName, fc.Pair.AccessToken)
	target.RawQuery = query.Encode()

	http.Redirect(fc.Response, fc.Request, target.String(), http.StatusFound)
	fc.State = StateRedirected
	return nil
}
