package domain

import "fmt"

// Status represents the lifecycle state of a task.
// Blocked is not a persisted status: a pending task with unmet dependencies
// is reported as blocked, but only the four states below are ever stored.
type Status string

// Valid task statuses
const (
	StatusPending    Status = "pending"
	StatusReady      Status = "ready"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// NewStatus creates a new Status value object with validation
func NewStatus(value string) (Status, error) {
	s := Status(value)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusReady, StatusInProgress, StatusDone:
		return nil
	default:
		return fmt.Errorf("invalid status %q: must be pending, ready, in_progress, or done", string(s))
	}
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusDone
}

// CanTransition reports whether moving from s to next is a legal step.
// The lifecycle is pending -> ready -> in_progress -> done; no transition
// may skip ready, and done is terminal.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusReady
	case StatusReady:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusDone
	default:
		return false
	}
}

// Transition validates and applies a status change
func (s Status) Transition(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return s, err
	}
	if !s.CanTransition(next) {
		return s, fmt.Errorf("invalid status transition %s -> %s", s, next)
	}
	return next, nil
}
