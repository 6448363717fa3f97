package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/session"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/metrics"
	"github.com/google/uuid"
)

// ErrAborted is returned with the partial result when a step's abort
// policy ended the run.
var ErrAborted = errors.New("run aborted")

// Observer is notified as steps start and finish.
type Observer interface {
	StepStarted(number int, name string)
	StepFinished(result *StepResult)
}

type Config struct {
	// RunID identifies the run; a random UUID is used when empty
	RunID     string
	Observers []Observer
	// Now overrides the clock used for timestamps
	Now func() time.Time
}

type Runner struct {
	config  *Config
	session *session.Session
	latency *metrics.Latency
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Runner{
		config:  cfg,
		session: session.New(),
		latency: metrics.NewLatency(),
	}
}

// Session exposes the run state, mainly for inspection after a run.
func (r *Runner) Session() *session.Session {
	return r.session
}

type StepResult struct {
	Number     int
	Name       string
	Passed     bool
	Details    string
	Duration   time.Duration
	StatusCode int
	Error      error
	// Unmet is set when the step did not run because a prerequisite was missing
	Unmet []session.Key
}

type RunResult struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Results   []*StepResult
	Passed    int
	Failed    int
	Aborted   bool
	AbortedAt int
	Latency   metrics.LatencySnapshot
}

func (r *RunResult) Total() int {
	return len(r.Results)
}

// Success is true when at least one step ran and all of them passed.
func (r *RunResult) Success() bool {
	return !r.Aborted && r.Total() > 0 && r.Passed == r.Total()
}

// SuccessRate returns the pass percentage, 0 for an empty run.
func (r *RunResult) SuccessRate() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total()) * 100
}

// Run executes steps in order. On abort it returns the partial result
// together with ErrAborted; a cancelled context ends the run with ctx.Err().
func (r *Runner) Run(ctx context.Context, steps []Step) (*RunResult, error) {
	runID := r.config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	start := r.config.Now()
	result := &RunResult{
		RunID:     runID,
		StartedAt: start,
	}

	finish := func() {
		result.Duration = r.config.Now().Sub(start)
		result.Latency = r.latency.Snapshot()
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			finish()
			return result, err
		}

		stepResult, abort := r.runStep(ctx, i+1, step)
		result.Results = append(result.Results, stepResult)
		if stepResult.Passed {
			result.Passed++
		} else {
			result.Failed++
		}

		for _, o := range r.config.Observers {
			o.StepFinished(stepResult)
		}

		if abort {
			result.Aborted = true
			result.AbortedAt = stepResult.Number
			finish()
			return result, fmt.Errorf("step %d %q: %w", stepResult.Number, step.Name, ErrAborted)
		}
	}

	finish()
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, number int, step Step) (*StepResult, bool) {
	result := &StepResult{
		Number: number,
		Name:   step.Name,
	}

	if missing := r.session.Missing(step.Requires...); len(missing) > 0 {
		result.Unmet = missing
		result.Details = fmt.Sprintf("prerequisite unavailable: no %s available", missing[0].Label())
		return result, step.Abort == AbortOnFailure
	}

	for _, o := range r.config.Observers {
		o.StepStarted(number, step.Name)
	}

	start := time.Now()
	outcome := step.Run(ctx, r.session.Snapshot())
	result.Duration = time.Since(start)

	if outcome.Response != nil {
		result.StatusCode = outcome.Response.StatusCode
		r.latency.Record(outcome.Response.Duration)
	}

	if outcome.Err != nil {
		result.Error = outcome.Err
		result.Details = outcome.Err.Error()
		return result, step.Abort != AbortNever
	}

	result.Passed = outcome.Passed
	result.Details = outcome.Details
	if result.Passed {
		r.session.Apply(outcome.Outputs)
		return result, false
	}

	return result, step.Abort == AbortOnFailure
}
