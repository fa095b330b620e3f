package taskdoc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/laneplan/internal/task"
)

// SummaryFileName is the tasks-summary document inside a plan directory
const SummaryFileName = "tasks.md"

// TaskFileName returns the per-task detail file name for a task id
func TaskFileName(id string) string {
	return fmt.Sprintf("task-%s.md", id)
}

// LoadDir reads a plan directory: the tasks summary plus any per-task
// detail files, merged into one task set. Detail files are optional; a
// summary-only directory is a valid plan with no dependencies.
func LoadDir(dir string) (*task.Set, error) {
	summaryPath := filepath.Join(dir, SummaryFileName)
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		return nil, fmt.Errorf("read tasks summary: %w", err)
	}

	set, err := ParseSummary(data)
	if err != nil {
		if perr, ok := err.(*ParseError); ok && perr.Path == "" {
			perr.Path = summaryPath
		}
		return nil, err
	}

	for _, t := range set.All() {
		detailPath := filepath.Join(dir, TaskFileName(t.ID.String()))
		detailData, err := os.ReadFile(detailPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read task file: %w", err)
		}

		detail, err := ParseTaskFile(detailData)
		if err != nil {
			if perr, ok := err.(*ParseError); ok && perr.Path == "" {
				perr.Path = detailPath
			}
			return nil, err
		}

		t.DependsOn = detail.Dependencies
		t.Deliverables = detail.Deliverables
		t.Tests = detail.Tests
		if err := set.Replace(t); err != nil {
			return nil, &ParseError{Path: detailPath, Reason: err.Error()}
		}
	}

	return set, nil
}
