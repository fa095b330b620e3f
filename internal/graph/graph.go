// Package graph resolves a task set into an immutable dependency graph.
//
// Build validates the set (unknown dependencies, cycles) and precomputes
// the derived views every planner needs: blocked-by and unblocks edges,
// dependency layers, and the critical path. A graph is never mutated;
// task changes rebuild it wholesale.
package graph

import (
	"sort"

	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/task"
)

// Graph is an immutable dependency DAG over a task set
type Graph struct {
	tasks     []task.Task
	index     map[domain.TaskID]int
	blockedBy map[domain.TaskID][]domain.TaskID
	unblocks  map[domain.TaskID][]domain.TaskID
	layers    [][]domain.TaskID
}

// DFS colors for cycle detection
const (
	colorUnvisited = iota
	colorInProgress
	colorDone
)

// Build constructs a Graph from a task set.
// It fails with *UnknownDependencyError when a dependency references a
// task outside the set, and with *CycleError when the dependency relation
// is not acyclic.
func Build(set *task.Set) (*Graph, error) {
	tasks := set.All()

	g := &Graph{
		tasks:     tasks,
		index:     make(map[domain.TaskID]int, len(tasks)),
		blockedBy: make(map[domain.TaskID][]domain.TaskID, len(tasks)),
		unblocks:  make(map[domain.TaskID][]domain.TaskID, len(tasks)),
	}

	for i, t := range tasks {
		g.index[t.ID] = i
	}

	for _, t := range tasks {
		for _, depID := range t.DependsOn {
			if _, ok := g.index[depID]; !ok {
				return nil, &UnknownDependencyError{TaskID: t.ID, DependsOn: depID}
			}
			g.blockedBy[t.ID] = append(g.blockedBy[t.ID], depID)
			g.unblocks[depID] = append(g.unblocks[depID], t.ID)
		}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, &CycleError{TaskIDs: cycle}
	}

	g.layers = g.computeLayers()
	return g, nil
}

// findCycle runs a three-color depth-first traversal over the dependency
// edges. It returns the tasks on the first cycle found, or nil when the
// graph is acyclic.
func (g *Graph) findCycle() []domain.TaskID {
	colors := make([]int, len(g.tasks))

	var path []domain.TaskID
	var cycle []domain.TaskID

	var visit func(i int) bool
	visit = func(i int) bool {
		colors[i] = colorInProgress
		path = append(path, g.tasks[i].ID)

		for _, depID := range g.blockedBy[g.tasks[i].ID] {
			j := g.index[depID]
			switch colors[j] {
			case colorInProgress:
				// The cycle is the path suffix starting at the revisited task.
				start := 0
				for k, id := range path {
					if id == depID {
						start = k
						break
					}
				}
				cycle = append(cycle, path[start:]...)
				return true
			case colorUnvisited:
				if visit(j) {
					return true
				}
			}
		}

		path = path[:len(path)-1]
		colors[i] = colorDone
		return false
	}

	for i := range g.tasks {
		if colors[i] == colorUnvisited {
			if visit(i) {
				return cycle
			}
		}
	}
	return nil
}

// computeLayers groups tasks by dependency depth: layer 0 holds tasks with
// no dependencies, layer k+1 holds tasks whose dependencies are fully
// contained in layers 0..k. Ids within a layer are sorted ascending
// (numeric on dotted ids, so 2.0 precedes 10.0) for stable output across
// runs.
func (g *Graph) computeLayers() [][]domain.TaskID {
	depth := make(map[domain.TaskID]int, len(g.tasks))

	var depthOf func(id domain.TaskID) int
	depthOf = func(id domain.TaskID) int {
		if d, ok := depth[id]; ok {
			return d
		}
		d := 0
		for _, depID := range g.blockedBy[id] {
			if dd := depthOf(depID) + 1; dd > d {
				d = dd
			}
		}
		depth[id] = d
		return d
	}

	maxDepth := 0
	for _, t := range g.tasks {
		if d := depthOf(t.ID); d > maxDepth {
			maxDepth = d
		}
	}

	layers := make([][]domain.TaskID, maxDepth+1)
	for _, t := range g.tasks {
		d := depth[t.ID]
		layers[d] = append(layers[d], t.ID)
	}
	for _, layer := range layers {
		sort.Slice(layer, func(i, j int) bool { return layer[i].Less(layer[j]) })
	}
	return layers
}

// Tasks returns all tasks in declaration order
func (g *Graph) Tasks() []task.Task {
	out := make([]task.Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Task returns the task with the given id
func (g *Graph) Task(id domain.TaskID) (task.Task, bool) {
	i, ok := g.index[id]
	if !ok {
		return task.Task{}, false
	}
	return g.tasks[i], true
}

// Len returns the number of tasks in the graph
func (g *Graph) Len() int {
	return len(g.tasks)
}

// BlockedByOf returns the ids the given task depends on, in declared order
func (g *Graph) BlockedByOf(id domain.TaskID) []domain.TaskID {
	return append([]domain.TaskID(nil), g.blockedBy[id]...)
}

// UnblocksOf returns the ids of tasks that depend on the given task, in
// declaration order of the dependents
func (g *Graph) UnblocksOf(id domain.TaskID) []domain.TaskID {
	return append([]domain.TaskID(nil), g.unblocks[id]...)
}

// Layers returns the dependency layers, ids ascending within each layer
// per domain.TaskID.Less (numeric order for dotted ids)
func (g *Graph) Layers() [][]domain.TaskID {
	out := make([][]domain.TaskID, len(g.layers))
	for i, layer := range g.layers {
		out[i] = append([]domain.TaskID(nil), layer...)
	}
	return out
}
