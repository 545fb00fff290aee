package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/wayfree/wayfree-auth/pkg/errors"
	"github.com/wayfree/wayfree-auth/pkg/identity"
	"github.com/wayfree/wayfree-auth/pkg/logincomplete"
)

type Handle struct {
	completer *logincomplete.Completer
}

func NewHandle(completer *logincomplete.Completer) Handle {
	return Handle{
		completer: completer,
	}
}

// Routes mounts the login completion endpoints
func Routes(r *chi.Mux, h Handle) {
	r.Post("/login/complete", h.CompleteLogin)
	r.Get("/healthz", h.HealthCheck)
}

// CompleteLogin finishes an external-provider login. The confirmed
// identity normally arrives on the request context, placed there by the
// provider callback middleware; a JSON body with the same shape is
// accepted for callers that terminate the provider exchange themselves.
// (POST /login/complete)
func (h Handle) CompleteLogin(w http.ResponseWriter, r *http.Request) {
	event, ok := identity.ConfirmationFromContext(r.Context())
	if !ok {
		if err := render.DecodeJSON(r.Body, &event); err != nil {
			slog.Error("Failed to decode login confirmation", "err", err)
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{
				"code":    "invalid_request",
				"message": "Invalid request body",
			})
			return
		}
	}

	if err := h.completer.Complete(r.Context(), event, r, w); err != nil {
		slog.Error("Failed to complete login", "provider", event.Provider, "err", err)
		code := errors.GetCode(err)
		render.Status(r, errors.MapErrorCodeToHTTPStatus(code))
		render.JSON(w, r, map[string]string{
			"code":    string(code),
			"message": err.Error(),
		})
		return
	}

	// On success Complete already wrote the redirect.
}

// HealthCheck returns service liveness
// (GET /healthz)
func (h Handle) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"service": "login-completion",
	})
}
