// Package notify posts run summaries to chat webhooks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// NotifyOn specifies when to send notifications
type NotifyOn string

const (
	// NotifyAlways sends notifications for every completed run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when a step failed
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when every step passed
	NotifySuccess NotifyOn = "success"
)

// ParseNotifyOn validates a policy name. Empty means NotifyFailure.
func ParseNotifyOn(s string) (NotifyOn, error) {
	switch NotifyOn(s) {
	case "":
		return NotifyFailure, nil
	case NotifyAlways, NotifyFailure, NotifySuccess:
		return NotifyOn(s), nil
	default:
		return "", fmt.Errorf("invalid notify policy %q (want always, failure or success)", s)
	}
}

// RunSummary is what a notifier reports about a run
type RunSummary struct {
	RunID       string        `json:"run_id"`
	BaseURL     string        `json:"base_url"`
	TotalTests  int           `json:"total_tests"`
	PassedTests int           `json:"passed_tests"`
	FailedTests int           `json:"failed_tests"`
	Duration    time.Duration `json:"duration"`
	Failed      []FailedTest  `json:"failed,omitempty"`
}

// Success reports whether the summarized run passed
func (s *RunSummary) Success() bool {
	return s.TotalTests > 0 && s.FailedTests == 0
}

type FailedTest struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`
}

// Notifier is the interface for notification services
type Notifier interface {
	Notify(ctx context.Context, summary *RunSummary) error
	Name() string
}

// Manager applies the notify policy and fans a summary out to notifiers
type Manager struct {
	notifiers []Notifier
	notifyOn  NotifyOn
}

func NewManager(notifyOn NotifyOn, notifiers ...Notifier) *Manager {
	return &Manager{
		notifiers: notifiers,
		notifyOn:  notifyOn,
	}
}

func (m *Manager) AddNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// ShouldNotify reports whether the policy selects the summarized run
func (m *Manager) ShouldNotify(summary *RunSummary) bool {
	switch m.notifyOn {
	case NotifyAlways:
		return true
	case NotifyFailure:
		return !summary.Success()
	case NotifySuccess:
		return summary.Success()
	default:
		return false
	}
}

// Notify sends the summary to every notifier if the policy selects it.
// All notifiers are attempted; their errors are joined.
func (m *Manager) Notify(ctx context.Context, summary *RunSummary) error {
	if !m.ShouldNotify(summary) {
		return nil
	}

	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, summary); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
