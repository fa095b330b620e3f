package task

import (
	"fmt"

	"github.com/felixgeelhaar/laneplan/internal/domain"
)

// Task represents a single unit of work in the plan
type Task struct {
	ID           domain.TaskID   `json:"id" yaml:"id"`
	Title        string          `json:"title" yaml:"title"`
	Size         domain.Size     `json:"size" yaml:"size"`
	Status       domain.Status   `json:"status" yaml:"status"`
	DependsOn    []domain.TaskID `json:"depends_on,omitempty" yaml:"dependencies,omitempty"`
	Deliverables []string        `json:"deliverables,omitempty" yaml:"deliverables,omitempty"`
	Tests        []string        `json:"tests,omitempty" yaml:"tests,omitempty"`
}

// Set owns all tasks of a plan, in declaration order.
// Declaration order is load-bearing: the critical path tie-break and all
// deterministic outputs derive from it.
type Set struct {
	tasks []Task
	index map[domain.TaskID]int
}

// NewSet creates an empty task set
func NewSet() *Set {
	return &Set{index: make(map[domain.TaskID]int)}
}

// Add appends a task to the set, rejecting duplicate ids
func (s *Set) Add(t Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("task %s: %w", t.ID, err)
	}
	if _, exists := s.index[t.ID]; exists {
		return fmt.Errorf("duplicate task ID %q", t.ID)
	}
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t)
	return nil
}

// Get returns the task with the given id
func (s *Set) Get(id domain.TaskID) (Task, bool) {
	i, ok := s.index[id]
	if !ok {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Replace swaps the stored task with the same id
func (s *Set) Replace(t Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("task %s: %w", t.ID, err)
	}
	i, ok := s.index[t.ID]
	if !ok {
		return fmt.Errorf("unknown task ID %q", t.ID)
	}
	s.tasks[i] = t
	return nil
}

// All returns the tasks in declaration order.
// The returned slice is a copy; mutating it does not affect the set.
func (s *Set) All() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks in the set
func (s *Set) Len() int {
	return len(s.tasks)
}

// Clone returns a deep copy of the set
func (s *Set) Clone() *Set {
	clone := NewSet()
	for _, t := range s.tasks {
		c := t
		c.DependsOn = append([]domain.TaskID(nil), t.DependsOn...)
		c.Deliverables = append([]string(nil), t.Deliverables...)
		c.Tests = append([]string(nil), t.Tests...)
		clone.index[c.ID] = len(clone.tasks)
		clone.tasks = append(clone.tasks, c)
	}
	return clone
}
