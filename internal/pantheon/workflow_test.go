package pantheon_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

func TestWorkflow_RunsValidationThenSteps(t *testing.T) {
	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	wf := pantheon.NewWorkflow("demo").
		Then("execute", record("execute")).
		Validate("validate", record("validate")).
		ThenIf("skipped", func() bool { return false }, record("skipped")).
		Then("finish", record("finish"))

	assert.Equal(t, pantheon.StateStart, wf.State())
	require.NoError(t, wf.Run(context.Background()))

	assert.Equal(t, []string{"validate", "execute", "finish"}, order)
	assert.Equal(t, pantheon.StateSuccess, wf.State())

	results := wf.Results()
	require.Len(t, results, 4)
	assert.Equal(t, pantheon.StepSkipped, results[2].Status)
	assert.Equal(t, "skipped", results[2].Name)
}

func TestWorkflow_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	ran := 0

	wf := pantheon.NewWorkflow("demo").
		Validate("ok", func(context.Context) error { return nil }).
		Then("fails", func(context.Context) error { ran++; return boom }).
		Then("never", func(context.Context) error { ran += 10; return nil })

	err := wf.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ran)
	assert.Equal(t, pantheon.StateAborted, wf.State())

	results := wf.Results()
	require.Len(t, results, 2)
	assert.Equal(t, pantheon.StepError, results[1].Status)
	assert.Equal(t, boom, results[1].Err)
}

func TestWorkflow_ValidationFailureSkipsExecution(t *testing.T) {
	executed := false
	wf := pantheon.NewWorkflow("demo").
		Validate("bad input", func(context.Context) error { return pantheon.ErrInvalidInput }).
		Then("execute", func(context.Context) error { executed = true; return nil })

	require.ErrorIs(t, wf.Run(context.Background()), pantheon.ErrInvalidInput)
	assert.False(t, executed)
}

func TestWorkflow_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executed := false
	wf := pantheon.NewWorkflow("demo").
		Then("execute", func(context.Context) error { executed = true; return nil })

	require.ErrorIs(t, wf.Run(ctx), context.Canceled)
	assert.False(t, executed)
	assert.Equal(t, pantheon.StateAborted, wf.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "validating", pantheon.StateValidating.String())
	assert.Equal(t, "aborted", pantheon.StateAborted.String())
	assert.Equal(t, "unknown", pantheon.State(42).String())
}
