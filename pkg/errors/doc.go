// Package errors provides structured error handling with error codes for
// wayfree-auth.
//
// Services create errors with a typed code and a human-readable message:
//
//	err := errors.New(errors.ErrCodeAccountNotFound, "account not found")
//	err := errors.Wrapf(dbErr, errors.ErrCodePersistenceFailed, "failed to store refresh credential for account %d", id)
//
// Callers inspect codes without caring about the concrete error value:
//
//	if errors.IsCode(err, errors.ErrCodeMissingDestination) { ... }
//
// HTTP handlers map codes to status codes with MapErrorCodeToHTTPStatus or
// (*Error).HTTPStatusCode. Standard errors.Is / errors.As keep working
// through the wrapped chain.
package errors
