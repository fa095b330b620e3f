// Package batch partitions a planned task graph into review-sized commit
// groups.
package batch

import (
	"fmt"

	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/graph"
)

// Batch is an unordered group of task ids intended for a single
// commit/review unit. A task's dependencies always land in the same or an
// earlier batch, never a later one; dependencies inside the same batch are
// committed together.
type Batch struct {
	Tasks []domain.TaskID `json:"tasks"`
}

// InvalidBatchSizeError reports a non-positive maxBatchSize
type InvalidBatchSizeError struct {
	Size int
}

// Error implements the error interface
func (e *InvalidBatchSizeError) Error() string {
	return fmt.Sprintf("invalid batch size %d: must be at least 1", e.Size)
}

// Group packs tasks into batches of at most maxBatchSize. Tasks are taken
// in the same layered, ascending-id order the lane planner uses, which
// guarantees a dependency is never batched after its dependent. The
// packing is deterministic: the same graph and size always produce the
// same batches.
func Group(g *graph.Graph, maxBatchSize int) ([]Batch, error) {
	if maxBatchSize < 1 {
		return nil, &InvalidBatchSizeError{Size: maxBatchSize}
	}

	var batches []Batch
	var open Batch

	for _, layer := range g.Layers() {
		for _, id := range layer {
			if len(open.Tasks) == maxBatchSize {
				batches = append(batches, open)
				open = Batch{}
			}
			open.Tasks = append(open.Tasks, id)
		}
	}
	if len(open.Tasks) > 0 {
		batches = append(batches, open)
	}

	return batches, nil
}
