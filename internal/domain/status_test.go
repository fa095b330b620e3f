package domain

import "testing"

func TestNewStatus(t *testing.T) {
	for _, valid := range []string{"pending", "ready", "in_progress", "done"} {
		if _, err := NewStatus(valid); err != nil {
			t.Errorf("NewStatus(%q) unexpected error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "blocked", "Done", "in progress"} {
		if _, err := NewStatus(invalid); err == nil {
			t.Errorf("NewStatus(%q) expected error, got nil", invalid)
		}
	}
}

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusReady, true},
		{StatusReady, StatusInProgress, true},
		{StatusInProgress, StatusDone, true},
		// ready may not be skipped
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusDone, false},
		{StatusReady, StatusDone, false},
		// no going back
		{StatusReady, StatusPending, false},
		{StatusInProgress, StatusReady, false},
		// done is terminal
		{StatusDone, StatusPending, false},
		{StatusDone, StatusReady, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusTransition(t *testing.T) {
	s, err := StatusPending.Transition(StatusReady)
	if err != nil {
		t.Fatalf("Transition(pending -> ready) error = %v", err)
	}
	if s != StatusReady {
		t.Errorf("Transition result = %s, want ready", s)
	}

	if _, err := StatusPending.Transition(StatusDone); err == nil {
		t.Error("Transition(pending -> done) expected error")
	}

	if !StatusDone.IsTerminal() {
		t.Error("done should be terminal")
	}
}
