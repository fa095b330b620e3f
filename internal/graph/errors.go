package graph

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/laneplan/internal/domain"
)

// CycleError reports a circular dependency. TaskIDs holds every task on
// the detected cycle, in traversal order, with the entry task repeated at
// the end to close the loop in the message.
type CycleError struct {
	TaskIDs []domain.TaskID
}

// Error implements the error interface
func (e *CycleError) Error() string {
	ids := make([]string, 0, len(e.TaskIDs)+1)
	for _, id := range e.TaskIDs {
		ids = append(ids, id.String())
	}
	if len(e.TaskIDs) > 0 {
		ids = append(ids, e.TaskIDs[0].String())
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(ids, " -> "))
}

// UnknownDependencyError reports a dependency on a task id that does not
// exist in the set.
type UnknownDependencyError struct {
	TaskID    domain.TaskID
	DependsOn domain.TaskID
}

// Error implements the error interface
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("task %s depends on unknown task %s", e.TaskID, e.DependsOn)
}
