package task

import (
	"fmt"
	"strings"
)

// Validate checks if the Task is valid according to domain rules
func (t *Task) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return fmt.Errorf("invalid task ID: %w", err)
	}

	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}

	if err := t.Size.Validate(); err != nil {
		return fmt.Errorf("invalid size: %w", err)
	}

	if err := t.Status.Validate(); err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}

	seen := make(map[string]bool, len(t.DependsOn))
	for i, depID := range t.DependsOn {
		if err := depID.Validate(); err != nil {
			return fmt.Errorf("dependency at index %d has invalid task ID: %w", i, err)
		}
		if depID == t.ID {
			return fmt.Errorf("task cannot depend on itself")
		}
		if seen[depID.String()] {
			return fmt.Errorf("duplicate dependency %q", depID)
		}
		seen[depID.String()] = true
	}

	return nil
}

// Validate checks set-level invariants: every dependency must reference a
// task in the set. Cycle detection is the graph resolver's job, not the
// set's.
func (s *Set) Validate() error {
	if s.Len() == 0 {
		return fmt.Errorf("task set must have at least one task")
	}

	for _, t := range s.tasks {
		for _, depID := range t.DependsOn {
			if _, ok := s.index[depID]; !ok {
				return fmt.Errorf("task %s has dependency %q that does not exist in the set", t.ID, depID)
			}
		}
	}

	return nil
}
