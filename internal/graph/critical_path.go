package graph

import "github.com/felixgeelhaar/laneplan/internal/domain"

// CriticalPath computes the longest weighted dependency chain through the
// graph, where a task's weight is its size mapped to day units. It returns
// the path in execution order together with its total weight.
//
// Ties are broken by declaration order: among equally long alternatives the
// first-declared task wins, both when picking a task's heaviest dependency
// and when picking the overall endpoint.
func (g *Graph) CriticalPath() ([]domain.TaskID, float64) {
	if len(g.tasks) == 0 {
		return nil, 0
	}

	// dist[i] is the weight of the heaviest chain ending at task i;
	// pred[i] is the declaration index of the chosen dependency, or -1.
	dist := make([]float64, len(g.tasks))
	pred := make([]int, len(g.tasks))
	computed := make([]bool, len(g.tasks))

	var compute func(i int) float64
	compute = func(i int) float64 {
		if computed[i] {
			return dist[i]
		}
		computed[i] = true
		pred[i] = -1

		best := 0.0
		for _, depID := range g.blockedBy[g.tasks[i].ID] {
			j := g.index[depID]
			d := compute(j)
			switch {
			case pred[i] == -1 || d > best:
				best = d
				pred[i] = j
			case d == best && j < pred[i]:
				// Equal chains: the first-declared dependency wins.
				pred[i] = j
			}
		}

		dist[i] = best + g.tasks[i].Size.Days()
		return dist[i]
	}

	end := 0
	for i := range g.tasks {
		compute(i)
	}
	for i := range g.tasks {
		if dist[i] > dist[end] {
			end = i
		}
	}

	var path []domain.TaskID
	for i := end; i != -1; i = pred[i] {
		path = append(path, g.tasks[i].ID)
	}
	// Reverse into execution order.
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return path, dist[end]
}
