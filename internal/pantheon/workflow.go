package pantheon

import (
	"context"
	"time"

	"github.com/rshade/pxpantheon/internal/logging"
)

// State is a workflow's position in its lifecycle.
type State int

// Workflow states. Validation always precedes execution; any failure aborts.
const (
	StateStart State = iota
	StateValidating
	StateExecuting
	StateSuccess
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateValidating:
		return "validating"
	case StateExecuting:
		return "executing"
	case StateSuccess:
		return "success"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// StepStatus is the outcome of one step.
type StepStatus int

const (
	// StepSuccess indicates the step completed.
	StepSuccess StepStatus = iota
	// StepSkipped indicates the step's condition was false.
	StepSkipped
	// StepError indicates the step failed and aborted the workflow.
	StepError
)

// StepResult records what happened to a step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Err      error
	Duration time.Duration
}

type step struct {
	name string
	when func() bool
	run  func(ctx context.Context) error
}

// Workflow runs validation steps, then execution steps, stopping at the first error.
// Nothing is rolled back.
type Workflow struct {
	operation   string
	validations []step
	steps       []step
	state       State
	results     []StepResult
}

// NewWorkflow starts an empty workflow for operation.
func NewWorkflow(operation string) *Workflow {
	return &Workflow{operation: operation}
}

// Validate adds a step to the validation phase.
func (w *Workflow) Validate(name string, fn func(ctx context.Context) error) *Workflow {
	w.validations = append(w.validations, step{name: name, run: fn})
	return w
}

// Then adds an execution step.
func (w *Workflow) Then(name string, fn func(ctx context.Context) error) *Workflow {
	w.steps = append(w.steps, step{name: name, run: fn})
	return w
}

// ThenIf adds an execution step that runs only when cond reports true at execution time.
func (w *Workflow) ThenIf(name string, cond func() bool, fn func(ctx context.Context) error) *Workflow {
	w.steps = append(w.steps, step{name: name, when: cond, run: fn})
	return w
}

// State returns the current state.
func (w *Workflow) State() State {
	return w.state
}

// Results returns the step outcomes recorded so far.
func (w *Workflow) Results() []StepResult {
	return append([]StepResult(nil), w.results...)
}

// Run executes the workflow and returns the first step error, if any.
func (w *Workflow) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	w.state = StateValidating
	if err := w.runPhase(ctx, w.validations); err != nil {
		return err
	}

	w.state = StateExecuting
	if err := w.runPhase(ctx, w.steps); err != nil {
		return err
	}

	w.state = StateSuccess
	log.Debug().
		Ctx(ctx).
		Str("component", "pantheon").
		Str("operation", w.operation).
		Int("steps", len(w.results)).
		Msg("workflow completed")
	return nil
}

func (w *Workflow) runPhase(ctx context.Context, steps []step) error {
	log := logging.FromContext(ctx)

	for _, s := range steps {
		if s.when != nil && !s.when() {
			w.results = append(w.results, StepResult{Name: s.name, Status: StepSkipped})
			continue
		}

		if err := ctx.Err(); err != nil {
			w.abort(s.name, err, 0)
			return err
		}

		start := time.Now()
		err := s.run(ctx)
		elapsed := time.Since(start)
		if err != nil {
			w.abort(s.name, err, elapsed)
			log.Debug().
				Ctx(ctx).
				Str("component", "pantheon").
				Str("operation", w.operation).
				Str("step", s.name).
				Str("state", w.state.String()).
				Err(err).
				Msg("workflow aborted")
			return err
		}

		w.results = append(w.results, StepResult{Name: s.name, Status: StepSuccess, Duration: elapsed})
		log.Debug().
			Ctx(ctx).
			Str("component", "pantheon").
			Str("operation", w.operation).
			Str("step", s.name).
			Dur("duration", elapsed).
			Msg("step completed")
	}
	return nil
}

func (w *Workflow) abort(name string, err error, elapsed time.Duration) {
	w.results = append(w.results, StepResult{Name: name, Status: StepError, Err: err, Duration: elapsed})
	w.state = StateAborted
}
