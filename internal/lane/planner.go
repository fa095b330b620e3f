// Package lane plans parallel execution tracks over a dependency graph.
//
// Lanes are a plan for human or external-agent execution, not goroutines:
// the planner is a pure computation over an immutable graph snapshot.
package lane

import (
	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/graph"
)

// Lane is one parallel execution track: an ordered sequence of task ids
// in which no task depends on a later task in the same lane.
type Lane struct {
	Tasks []domain.TaskID `json:"tasks"`
}

// Options configures lane planning
type Options struct {
	// MaxLanes caps the number of parallel lanes. Zero means unbounded:
	// the widest layer gets one lane per task.
	MaxLanes int
}

// Plan assigns tasks to lanes using greedy layering: all tasks of layer k
// are mutually independent and are dealt round-robin across the lanes.
// Within a layer tasks are taken in ascending id order, so the plan is
// deterministic across runs.
func Plan(g *graph.Graph, opts Options) []Lane {
	layers := g.Layers()

	laneCount := 0
	for _, layer := range layers {
		if len(layer) > laneCount {
			laneCount = len(layer)
		}
	}
	if opts.MaxLanes > 0 && laneCount > opts.MaxLanes {
		laneCount = opts.MaxLanes
	}
	if laneCount == 0 {
		return nil
	}

	lanes := make([]Lane, laneCount)
	for _, layer := range layers {
		for i, id := range layer {
			lane := i % laneCount
			lanes[lane].Tasks = append(lanes[lane].Tasks, id)
		}
	}

	return lanes
}
