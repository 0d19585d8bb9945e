package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrNilClient     = errors.New("pipeline: client is required")
	ErrNoSteps       = errors.New("pipeline: at least one step is required")
	ErrUnknownStep   = errors.New("pipeline: unknown step")
	ErrRunInProgress = errors.New("pipeline: a run is already in progress")
)

// Outcome is the result of an executed step.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// StepOutcome describes one executed step.
type StepOutcome struct {
	Step     Step
	Outcome  Outcome
	Elapsed  ElapsedTime
	Message  string
	Duration time.Duration
	Err      error
}

// Report summarises a run. Steps lists executed steps only.
type Report struct {
	StartFrom  string
	Steps      []StepOutcome
	Halted     bool
	FailedStep string
	// Err is set when the run could not start or was cancelled.
	Err error
}

// Succeeded reports whether every step from the start point ran and passed.
func (r Report) Succeeded() bool {
	return r.Err == nil && !r.Halted
}

// Executed returns the ids of the executed steps in order.
func (r Report) Executed() []string {
	out := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		out = append(out, s.Step.ID)
	}
	return out
}

// Runner walks the step list one step at a time and stops at the first
// failure. Each Run is independent; a failed run is resumed by starting a
// new one at the failed step.
type Runner struct {
	mu       sync.Mutex
	client   Client
	steps    []Step
	opts     Options
	progress *progress
}

// New builds a runner over client.
func New(client Client, options ...Option) (*Runner, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	opts := NewOptions(options...)
	if err := validateSteps(opts.Steps); err != nil {
		return nil, err
	}
	return &Runner{
		client:   client,
		steps:    append([]Step(nil), opts.Steps...),
		opts:     opts,
		progress: newProgress(opts),
	}, nil
}

// Steps returns the configured step list.
func (r *Runner) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// Run executes the steps in order, beginning at startFrom when it is not
// empty. clear empties the progress container first. Only one run may be
// active at a time; a concurrent call returns ErrRunInProgress at once.
func (r *Runner) Run(ctx context.Context, startFrom string, clear bool) Report {
	report := Report{StartFrom: startFrom}
	if !r.mu.TryLock() {
		report.Err = ErrRunInProgress
		return report
	}
	defer r.mu.Unlock()

	start := 0
	if startFrom = strings.TrimSpace(startFrom); startFrom != "" {
		start = r.index(startFrom)
		if start < 0 {
			report.Err = fmt.Errorf("%w: %q", ErrUnknownStep, startFrom)
			return report
		}
	}

	r.progress.begin(clear)
	defer r.progress.finish()

	log := r.opts.Logger.With(zap.String("start_from", startFrom))
	log.Info("update run started", zap.Int("steps", len(r.steps)-start))

	for i := start; i < len(r.steps); i++ {
		if i > start {
			r.opts.Yield()
		}
		if err := ctx.Err(); err != nil {
			report.Err = err
			report.Halted = true
			log.Warn("update run cancelled", zap.String("next_step", r.steps[i].ID), zap.Error(err))
			return report
		}

		outcome := r.execute(ctx, r.steps[i])
		report.Steps = append(report.Steps, outcome)
		if outcome.Outcome == OutcomeFailed {
			report.Halted = true
			report.FailedStep = outcome.Step.ID
			log.Warn("update run halted", zap.String("step", outcome.Step.ID), zap.Error(outcome.Err))
			return report
		}
	}

	log.Info("update run finished", zap.Int("executed", len(report.Steps)))
	return report
}

// Restart begins a new run at stepID without clearing earlier progress.
func (r *Runner) Restart(ctx context.Context, stepID string) Report {
	return r.Run(ctx, stepID, false)
}

func (r *Runner) execute(ctx context.Context, step Step) StepOutcome {
	ctx, span := r.opts.Tracer.Start(ctx, "pipeline.step",
		trace.WithAttributes(
			attribute.String("step.id", step.ID),
			attribute.String("step.link", step.RelativeLink),
		),
	)
	defer span.End()

	r.progress.started(step)

	began := time.Now()
	elapsed, err := r.client.Execute(ctx, step)
	duration := time.Since(began)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "step failed")
		r.opts.Metrics.observe(step.ID, OutcomeFailed, duration)
		r.progress.failed(step)
		return StepOutcome{
			Step:     step,
			Outcome:  OutcomeFailed,
			Message:  step.ErrorName,
			Duration: duration,
			Err:      fmt.Errorf("pipeline: step %s: %w", step.ID, err),
		}
	}

	message := step.SuccessName + " in " + strings.TrimSpace(elapsed.String())
	r.opts.Metrics.observe(step.ID, OutcomeSucceeded, duration)
	r.progress.succeeded(step, message)
	r.opts.Logger.Debug("update step succeeded",
		zap.String("step", step.ID),
		zap.Duration("duration", duration),
	)
	return StepOutcome{
		Step:     step,
		Outcome:  OutcomeSucceeded,
		Elapsed:  elapsed,
		Message:  message,
		Duration: duration,
	}
}

func (r *Runner) index(id string) int {
	for i, step := range r.steps {
		if step.ID == id {
			return i
		}
	}
	return -1
}
