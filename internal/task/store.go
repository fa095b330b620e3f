package task

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/laneplan/internal/domain"
)

// RebuildFunc validates a candidate task set, typically by building the
// dependency graph over it. The store calls it before committing any
// mutation, so a cycle or unknown dependency can never enter the live set.
type RebuildFunc func(*Set) error

// Store owns the live task set in service mode. Every mutation runs under
// one exclusive lock and triggers a full rebuild of the candidate set;
// readers only ever see committed snapshots, never partial views.
type Store struct {
	mu      sync.Mutex
	tasks   *Set
	rebuild RebuildFunc
}

// NewStore creates a store over an initial task set.
// The initial set must already pass the rebuild check.
func NewStore(initial *Set, rebuild RebuildFunc) (*Store, error) {
	if rebuild == nil {
		return nil, fmt.Errorf("rebuild func is required")
	}
	if initial == nil {
		initial = NewSet()
	}
	if initial.Len() > 0 {
		if err := rebuild(initial); err != nil {
			return nil, fmt.Errorf("initial task set rejected: %w", err)
		}
	}
	return &Store{tasks: initial.Clone(), rebuild: rebuild}, nil
}

// Snapshot returns a deep copy of the committed task set
func (s *Store) Snapshot() *Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Upsert adds or replaces a task, committing only if the resulting set
// rebuilds cleanly.
func (s *Store) Upsert(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.tasks.Clone()
	if _, exists := candidate.Get(t.ID); exists {
		if err := candidate.Replace(t); err != nil {
			return err
		}
	} else {
		if err := candidate.Add(t); err != nil {
			return err
		}
	}

	if err := s.rebuild(candidate); err != nil {
		return err
	}

	s.tasks = candidate
	return nil
}

// Remove deletes a task, rejecting the removal if another task still
// depends on it.
func (s *Store) Remove(id domain.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks.Get(id); !ok {
		return fmt.Errorf("unknown task ID %q", id)
	}

	candidate := NewSet()
	for _, t := range s.tasks.All() {
		if t.ID == id {
			continue
		}
		if err := candidate.Add(t); err != nil {
			return err
		}
	}

	if candidate.Len() > 0 {
		if err := s.rebuild(candidate); err != nil {
			return err
		}
	}

	s.tasks = candidate
	return nil
}

// Transition applies a status change to a task. Moving to ready
// additionally requires every dependency to be done.
func (s *Store) Transition(id domain.TaskID, next domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks.Get(id)
	if !ok {
		return fmt.Errorf("unknown task ID %q", id)
	}

	newStatus, err := t.Status.Transition(next)
	if err != nil {
		return fmt.Errorf("task %s: %w", id, err)
	}

	if newStatus == domain.StatusReady {
		for _, depID := range t.DependsOn {
			dep, ok := s.tasks.Get(depID)
			if !ok {
				return fmt.Errorf("task %s: dependency %q not found", id, depID)
			}
			if dep.Status != domain.StatusDone {
				return fmt.Errorf("task %s is not ready: dependency %s is %s", id, depID, dep.Status)
			}
		}
	}

	t.Status = newStatus
	return s.tasks.Replace(t)
}

// IsBlocked reports the derived blocked view: a pending task with at
// least one dependency that is not done.
func (s *Store) IsBlocked(id domain.TaskID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks.Get(id)
	if !ok {
		return false, fmt.Errorf("unknown task ID %q", id)
	}
	return isBlocked(s.tasks, t), nil
}

// BlockedTasks returns the ids of all tasks in the derived blocked view,
// in declaration order.
func (s *Store) BlockedTasks() []domain.TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blocked []domain.TaskID
	for _, t := range s.tasks.All() {
		if isBlocked(s.tasks, t) {
			blocked = append(blocked, t.ID)
		}
	}
	return blocked
}

func isBlocked(set *Set, t Task) bool {
	if t.Status != domain.StatusPending {
		return false
	}
	for _, depID := range t.DependsOn {
		dep, ok := set.Get(depID)
		if !ok || dep.Status != domain.StatusDone {
			return true
		}
	}
	return false
}
