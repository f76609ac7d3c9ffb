package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/quivotequoi/internal/model"
)

// Step is one stage of a sitting: fetching the minutes, the roll calls or
// the minutes text, or reconciling what was fetched. A step reads and
// extends the SittingRun left by the steps before it.
//
// Design decision: steps are values rather than functions so that each one
// can hold its sources and parsing tables and report a name for the run's
// PerformedSteps list.
type Step interface {
	// Do runs the stage. A document the Parliament has not published is
	// recorded in the run; only a fetch, parse or reconcile failure is an
	// error.
	Do(ctx context.Context, run *model.SittingRun) error

	// Name identifies the stage in logs and in PerformedSteps.
	Name() string
}

// Pipeline runs the stages of one sitting in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// keepGoing runs the remaining stages after a failure.
	keepGoing bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError runs the remaining stages after one fails. The
// failure is still recorded in the run.
//
// The default is to stop: reconciling a sitting whose roll-call results
// failed to load would report every minutes record as unmatched.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.keepGoing = continueOnError
	}
}

// New returns an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step after the stages already added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in the given order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every stage against run. Cancellation is checked between
// stages and ends the sitting with ctx.Err().
//
// The first failure is stored in run.Error and returned, unless the
// pipeline was built with WithContinueOnError, in which case the last
// failure stays in the run and Execute returns nil.
func (p *Pipeline) Execute(ctx context.Context, run *model.SittingRun) error {
	sitting := run.Sitting.String()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("sitting cancelled", "sitting", sitting, "before", step.Name(), "reason", err)
			fail(run, err)
			return err
		}

		p.logger.Info("running step", "step", step.Name(), "sitting", sitting)
		err := step.Do(ctx, run)
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
		if err == nil {
			p.logger.Debug("step done", "step", step.Name(), "sitting", sitting)
			continue
		}

		p.logger.Error("step failed", "step", step.Name(), "sitting", sitting, "error", err)
		fail(run, err)
		if !p.keepGoing {
			return err
		}
	}
	return nil
}

func fail(run *model.SittingRun, err error) {
	run.Error = err
	run.ErrorMessage = err.Error()
}

// StepCount returns the number of stages.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the stage names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
