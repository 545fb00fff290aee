package logincomplete

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/wayfree/wayfree-auth/pkg/account"
	"github.com/wayfree/wayfree-auth/pkg/flowstate"
	"github.com/wayfree/wayfree-auth/pkg/identity"
	"github.com/wayfree/wayfree-auth/pkg/session"
	"github.com/wayfree/wayfree-auth/pkg/tokenissuer"
)

// FlowState tracks how far one completion has progressed. States only
// move forward; any step failure moves directly to StateFailed and aborts
// every later step.
type FlowState string

const (
	StateReceived            FlowState = "received"
	StateIdentityResolved    FlowState = "identity_resolved"
	StateDestinationResolved FlowState = "destination_resolved"
	StateIssued              FlowState = "issued"
	StatePersisted           FlowState = "persisted"
	StateCleaned             FlowState = "cleaned"
	StateTransported         FlowState = "transported"
	StateRedirected          FlowState = "redirected"
	StateFailed              FlowState = "failed"
)

// Step represents a single step in the completion flow
type Step interface {
	// Name returns the unique name of this step
	Name() string

	// Order returns the execution order (lower numbers execute first)
	Order() int

	// Execute performs the step's logic
	Execute(ctx context.Context, fc *FlowContext) error

	// ShouldSkip determines if this step should be skipped based on the
	// current context
	ShouldSkip(ctx context.Context, fc *FlowContext) bool
}

// FlowContext carries state between completion steps
type FlowContext struct {
	// Input data
	Event    identity.Confirmation
	Request  *http.Request
	Response http.ResponseWriter

	// Current state
	State       FlowState
	Identity    *identity.Identity
	Pair        *tokenissuer.TokenPair
	Destination string

	// Services and settings (injected by the flow executor)
	Services *ServiceDependencies
	Settings *Settings
}

// ServiceDependencies contains the collaborators the completion steps call
type ServiceDependencies struct {
	Tokens   tokenissuer.TokenService
	Accounts account.AccountRepository
	Markers  flowstate.MarkerStore
	Sessions session.SessionService
}

// Settings holds the transport attributes of a completion
type Settings struct {
	AccessCookieName  string
	RefreshCookieName string
	AuthHeaderName    string
	CookiePath        string
	CookieHTTPOnly    bool
	CookieSecure      bool
	CookieSameSite    http.SameSite
	SessionIdle       time.Duration
}

// StepRegistry manages and orders completion steps
type StepRegistry struct {
	steps []Step
}

// NewStepRegistry creates a new step registry
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{
		steps: make([]Step, 0),
	}
}

// AddStep adds a step to the registry
func (r *StepRegistry) AddStep(step Step) *StepRegistry {
	r.steps = append(r.steps, step)
	return r
}

// OrderedSteps returns steps sorted by their order
func (r *StepRegistry) OrderedSteps() []Step {
	orderedSteps := make([]Step, len(r.steps))
	copy(orderedSteps, r.steps)

	sort.Slice(orderedSteps, func(i, j int) bool {
		return orderedSteps[i].Order() < orderedSteps[j].Order()
	})

	return orderedSteps
}

// FlowExecutor orchestrates the execution of completion steps
type FlowExecutor struct {
	registry *StepRegistry
	services *ServiceDependencies
	settings *Settings
}

// NewFlowExecutor creates a new flow executor
func NewFlowExecutor(registry *StepRegistry, services *ServiceDependencies, settings *Settings) *FlowExecutor {
	return &FlowExecutor{
		registry: registry,
		services: services,
		settings: settings,
	}
}

// Execute runs the complete sequence for one confirmed login. The request
// runs to completion or failure; there is no retry and no background work.
func (e *FlowExecutor) Execute(ctx context.Context, event identity.Confirmation, r *http.Request, w http.ResponseWriter) (*FlowContext, error) {
	fc := &FlowContext{
		Event:    event,
		Request:  r,
		Response: w,
		State:    StateReceived,
		Services: e.services,
		Settings: e.settings,
	}

	for _, step := range e.registry.OrderedSteps() {
		if step.ShouldSkip(ctx, fc) {
			continue
		}

		if err := step.Execute(ctx, fc); err != nil {
			fc.State = StateFailed
			slog.Error("Login completion step failed", "step", step.Name(), "err", err)
			return fc, err
		}
	}

	return fc, nil
}
