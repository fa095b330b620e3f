package ux

import (
	"os"
	"path/filepath"
)

// PathDefaults provides smart defaults for common file paths
type PathDefaults struct {
	LaneplanDir string
}

// NewPathDefaults creates a new PathDefaults with sensible defaults
func NewPathDefaults() *PathDefaults {
	return &PathDefaults{
		LaneplanDir: ".laneplan",
	}
}

// PlanDir returns the default plan directory, preferring an existing
// .laneplan directory over the working directory.
func (pd *PathDefaults) PlanDir() string {
	if info, err := os.Stat(pd.LaneplanDir); err == nil && info.IsDir() {
		return pd.LaneplanDir
	}
	return "."
}

// TasksFile returns the default path to the tasks summary document
func (pd *PathDefaults) TasksFile() string {
	return filepath.Join(pd.PlanDir(), "tasks.md")
}

// LockFile returns the default path to plan.lock.json
func (pd *PathDefaults) LockFile() string {
	return pd.LockFileIn(pd.LaneplanDir)
}

// LockFileIn returns the plan.lock.json path inside a specific plan
// directory. The lock always lives next to the tasks document it hashes.
func (pd *PathDefaults) LockFileIn(dir string) string {
	return filepath.Join(dir, "plan.lock.json")
}
