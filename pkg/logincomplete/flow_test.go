package logincomplete

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfree/wayfree-auth/pkg/errors"
	"github.com/wayfree/wayfree-auth/pkg/identity"
)

type recordingStep struct {
	name    string
	order   int
	skip    bool
	err     error
	execLog *[]string
}

func (s *recordingStep) Name() string { return s.name }
func (s *recordingStep) Order() int   { return s.order }

func (s *recordingStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return s.skip
}

func (s *recordingStep) Execute(ctx context.Context, fc *FlowContext) error {
	*s.execLog = append(*s.execLog, s.name)
	return s.err
}

func TestStepRegistryOrdersSteps(t *testing.T) {
	var log []string
	registry := NewStepRegistry().
		AddStep(&recordingStep{name: "third", order: 30, execLog: &log}).
		AddStep(&recordingStep{name: "first", order: 10, execLog: &log}).
		AddStep(&recordingStep{name: "second", order: 20, execLog: &log})

	steps := registry.OrderedSteps()
	require.Len(t, steps, 3)
	assert.Equal(t, "first", steps[0].Name())
	assert.Equal(t, "second", steps[1].Name())
	assert.Equal(t, "third", steps[2].Name())
}

func TestFlowExecutorRunsInOrderAndSkips(t *testing.T) {
	var log []string
	registry := NewStepRegistry().
		AddStep(&recordingStep{name: "second", order: 20, execLog: &log}).
		AddStep(&recordingStep{name: "skipped", order: 15, skip: true, execLog: &log}).
		AddStep(&recordingStep{name: "first", order: 10, execLog: &log})

	executor := NewFlowExecutor(registry, &ServiceDependencies{}, &Settings{})
	fc, err := executor.Execute(context.Background(),
		identity.Confirmation{}, httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, log)
	assert.NotEqual(t, StateFailed, fc.State)
}

func TestFlowExecutorAbortsOnFailure(t *testing.T) {
	var log []string
	failure := errors.Internal("boom")
	registry := NewStepRegistry().
		AddStep(&recordingStep{name: "first", order: 10, execLog: &log}).
		AddStep(&recordingStep{name: "failing", order: 20, err: failure, execLog: &log}).
		AddStep(&recordingStep{name: "never", order: 30, execLog: &log})

	executor := NewFlowExecutor(registry, &ServiceDependencies{}, &Settings{})
	fc, err := executor.Execute(context.Background(),
		identity.Confirmation{}, httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

	require.Error(t, err)
	assert.Equal(t, StateFailed, fc.State)
	assert.Equal(t, []string{"first", "failing"}, log)
}
