package runner

import (
	"context"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/session"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/http"
)

// AbortPolicy decides whether a failed step ends the run.
type AbortPolicy int

const (
	// AbortNever records the failure and moves on
	AbortNever AbortPolicy = iota
	// AbortOnError ends the run only when the step returned an error
	AbortOnError
	// AbortOnFailure ends the run on any failure
	AbortOnFailure
)

func (p AbortPolicy) String() string {
	switch p {
	case AbortOnError:
		return "on-error"
	case AbortOnFailure:
		return "on-failure"
	default:
		return "never"
	}
}

// StepFunc runs one step. It receives a snapshot of the session and returns
// the outcome; outputs are applied by the runner only if the step passed.
type StepFunc func(ctx context.Context, s *session.Session) Outcome

type Step struct {
	Name     string
	Requires []session.Key
	Abort    AbortPolicy
	Run      StepFunc
}

// Outcome is what a step reports back.
type Outcome struct {
	Passed   bool
	Details  string
	Err      error
	Response *http.Response
	Outputs  session.Outputs
}

func Passed(resp *http.Response, details string, outputs session.Outputs) Outcome {
	return Outcome{Passed: true, Details: details, Response: resp, Outputs: outputs}
}

func Failed(resp *http.Response, details string) Outcome {
	return Outcome{Details: details, Response: resp}
}

// Errored reports a transport or decoding failure.
func Errored(err error) Outcome {
	return Outcome{Err: err}
}
