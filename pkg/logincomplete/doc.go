// Package logincomplete finishes an external-provider login by turning a
// confirmed identity into the application's own session credentials.
//
// The sequence is fixed and ordered. For one confirmed login the
// completer:
//
//  1. deletes the refresh credential a previous login may have left on
//     the client
//  2. resolves the provider attribute map into a typed identity
//  3. resolves the redirect destination recorded when the flow started
//  4. issues a signed access/refresh credential pair
//  5. overwrites the account's stored refresh credential
//  6. deletes the single-use flow markers
//  7. attaches the pair to the response (Access cookie, Refresh cookie,
//     Authorization header)
//  8. caps the server-side session idle timeout
//  9. redirects to the destination with the access credential appended
//     as a query parameter
//
// Ordering carries the flow's one hard guarantee: the refresh credential
// is persisted before anything is transported, so a client never holds a
// refresh credential the server does not know about. Destination
// resolution runs before persistence for the same reason in reverse — a
// login that cannot redirect anywhere aborts without mutating storage.
//
// Steps implement the Step interface and run through a FlowExecutor in
// Order() sequence; a failing step moves the flow to StateFailed and
// aborts the remainder. Deployments needing extra behavior (audit
// hooks, device binding) can register additional steps between the
// built-in orders.
//
// Basic usage:
//
//	completer := logincomplete.NewCompleter(tokens, accounts, markers, sessions)
//	err := completer.Complete(ctx, event, r, w)
//
// Errors carry structured codes (MALFORMED_IDENTITY, MISSING_DESTINATION,
// ISSUANCE_FAILED, PERSISTENCE_FAILED, TRANSPORT_FAILED) for the HTTP
// layer to translate; the completer itself never renders error pages and
// never retries.
package logincomplete
