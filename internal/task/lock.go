package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/felixgeelhaar/laneplan/internal/domain"
)

// PlanLock is the hashed snapshot of the task set the last plan was
// rendered from. Comparing it against a freshly parsed tasks document
// detects drift between the document and the rendered plan.
type PlanLock struct {
	Version string                       `json:"version"`
	Tasks   map[domain.TaskID]LockedTask `json:"tasks"`
}

// LockedTask holds the canonical hash of a task definition
type LockedTask struct {
	Hash string `json:"hash"` // blake3(canonical task JSON)
}

// DriftKind classifies a single lock comparison finding
type DriftKind string

const (
	DriftAdded   DriftKind = "added"
	DriftRemoved DriftKind = "removed"
	DriftChanged DriftKind = "changed"
)

// Drift describes one task whose definition diverged from the lock
type Drift struct {
	ID   domain.TaskID `json:"id"`
	Kind DriftKind     `json:"kind"`
	Want string        `json:"want,omitempty"` // hash recorded in the lock
	Got  string        `json:"got,omitempty"`  // hash of the current definition
}

// GenerateLock creates a PlanLock from a task set
func GenerateLock(set *Set, version string) (*PlanLock, error) {
	lock := &PlanLock{
		Version: version,
		Tasks:   make(map[domain.TaskID]LockedTask, set.Len()),
	}

	for _, t := range set.All() {
		hash, err := Hash(t)
		if err != nil {
			return nil, fmt.Errorf("hash task %s: %w", t.ID, err)
		}
		lock.Tasks[t.ID] = LockedTask{Hash: hash}
	}

	return lock, nil
}

// Diff compares a task set against the lock and returns drift findings
// in declaration order, with removals last.
func (l *PlanLock) Diff(set *Set) ([]Drift, error) {
	var findings []Drift

	seen := make(map[domain.TaskID]bool, set.Len())
	for _, t := range set.All() {
		seen[t.ID] = true

		hash, err := Hash(t)
		if err != nil {
			return nil, fmt.Errorf("hash task %s: %w", t.ID, err)
		}

		locked, ok := l.Tasks[t.ID]
		if !ok {
			findings = append(findings, Drift{ID: t.ID, Kind: DriftAdded, Got: hash})
			continue
		}
		if locked.Hash != hash {
			findings = append(findings, Drift{ID: t.ID, Kind: DriftChanged, Want: locked.Hash, Got: hash})
		}
	}

	removed := make([]domain.TaskID, 0)
	for id := range l.Tasks {
		if !seen[id] {
			removed = append(removed, id)
		}
	}
	// Map iteration order is random; sort for stable output.
	sort.Slice(removed, func(i, j int) bool { return removed[i].Less(removed[j]) })
	for _, id := range removed {
		findings = append(findings, Drift{ID: id, Kind: DriftRemoved, Want: l.Tasks[id].Hash})
	}

	return findings, nil
}

// SaveLock writes a PlanLock to disk
func SaveLock(lock *PlanLock, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan lock: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write plan lock: %w", err)
	}

	return nil
}

// LoadLock reads a PlanLock from disk
func LoadLock(path string) (*PlanLock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan lock: %w", err)
	}

	var lock PlanLock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("unmarshal plan lock: %w", err)
	}

	return &lock, nil
}
