package identity

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/wayfree/wayfree-auth/pkg/errors"
)

// Role is the coarse authorization level carried into issued credentials.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Attribute keys expected in the provider attribute map.
const (
	AttrAccountID = "accountId"
	AttrRole      = "role"
)

// Confirmation is the identity-confirmation event produced once the
// external provider handshake has succeeded. Attributes is the raw
// provider-supplied attribute map identifying the authenticated principal.
// A Confirmation only lives for the duration of handling one login.
type Confirmation struct {
	Provider   string                 `json:"provider"`
	Attributes map[string]interface{} `json:"attributes"`
}

// Identity is the typed projection of a confirmation's attribute map.
type Identity struct {
	AccountID int64
	Role      Role
}

// ParseIdentity maps a provider attribute map into an Identity. It
// validates required keys and types up front and fails closed with a
// MALFORMED_IDENTITY error when the map is absent or malformed.
func ParseIdentity(attrs map[string]interface{}) (Identity, error) {
	if len(attrs) == 0 {
		return Identity{}, errors.New(errors.ErrCodeMalformedIdentity, "attribute map is missing")
	}

	rawID, ok := attrs[AttrAccountID]
	if !ok {
		return Identity{}, errors.Newf(errors.ErrCodeMalformedIdentity, "attribute %q is missing", AttrAccountID)
	}
	accountID, err := toInt64(rawID)
	if err != nil {
		return Identity{}, errors.Wrapf(err, errors.ErrCodeMalformedIdentity, "attribute %q is not an account identifier", AttrAccountID)
	}
	if accountID <= 0 {
		return Identity{}, errors.Newf(errors.ErrCodeMalformedIdentity, "attribute %q must be positive, got %d", AttrAccountID, accountID)
	}

	rawRole, ok := attrs[AttrRole]
	if !ok {
		return Identity{}, errors.Newf(errors.ErrCodeMalformedIdentity, "attribute %q is missing", AttrRole)
	}
	roleStr, ok := rawRole.(string)
	if !ok || roleStr == "" {
		return Identity{}, errors.Newf(errors.ErrCodeMalformedIdentity, "attribute %q is not a role name", AttrRole)
	}

	return Identity{
		AccountID: accountID,
		Role:      Role(strings.ToUpper(roleStr)),
	}, nil
}

// toInt64 accepts the numeric representations a JSON decode or an upstream
// provider client may hand us for the account identifier.
func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, strconv.ErrSyntax
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, strconv.ErrSyntax
	}
}

type confirmationCtxKey struct{}

// WithConfirmation attaches a confirmation event to the context so that an
// identity-exchange layer can hand it to the completion handler.
func WithConfirmation(ctx context.Context, c Confirmation) context.Context {
	return context.WithValue(ctx, confirmationCtxKey{}, c)
}

// ConfirmationFromContext retrieves a confirmation event previously
// attached with WithConfirmation.
func ConfirmationFromContext(ctx context.Context) (Confirmation, bool) {
	c, ok := ctx.Value(confirmationCtxKey{}).(Confirmation)
	return c, ok
}
