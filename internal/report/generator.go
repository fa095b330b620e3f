// Package report renders plan artifacts as Markdown. Rendering is pure:
// all failure modes live upstream in parsing and graph resolution.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/laneplan/internal/batch"
	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/graph"
	"github.com/felixgeelhaar/laneplan/internal/lane"
)

// Options configures rendering
type Options struct {
	// PlanID tags the rendered plan so re-renders are traceable.
	// Empty omits the tag line.
	PlanID string

	// GeneratedAt stamps the tag line. The zero time omits the stamp,
	// which keeps rendering deterministic for callers that want it.
	GeneratedAt time.Time
}

// Render produces the Execution Plan and Batch Plan sections for a tasks
// summary document.
func Render(g *graph.Graph, lanes []lane.Lane, batches []batch.Batch, opts Options) string {
	var b strings.Builder

	b.WriteString("## Execution Plan\n\n")
	if opts.PlanID != "" {
		if opts.GeneratedAt.IsZero() {
			fmt.Fprintf(&b, "<!-- laneplan id=%s -->\n\n", opts.PlanID)
		} else {
			fmt.Fprintf(&b, "<!-- laneplan id=%s generated=%s -->\n\n",
				opts.PlanID, opts.GeneratedAt.UTC().Format(time.RFC3339))
		}
	}

	path, days := g.CriticalPath()
	fmt.Fprintf(&b, "**Critical path** (%s days): %s\n\n", formatDays(days), joinIDs(path, " -> "))

	b.WriteString("### Lanes\n\n")
	b.WriteString("| Lane | Tasks | Days |\n")
	b.WriteString("|------|-------|------|\n")
	for i, l := range lanes {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, joinIDs(l.Tasks, ", "), formatDays(laneDays(g, l)))
	}
	b.WriteString("\n")

	b.WriteString("## Batch Plan\n\n")
	for i, bt := range batches {
		fmt.Fprintf(&b, "%d. Batch %d: %s\n", i+1, i+1, joinIDs(bt.Tasks, ", "))
	}

	return b.String()
}

func laneDays(g *graph.Graph, l lane.Lane) float64 {
	total := 0.0
	for _, id := range l.Tasks {
		if t, ok := g.Task(id); ok {
			total += t.Size.Days()
		}
	}
	return total
}

func joinIDs(ids []domain.TaskID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, sep)
}

func formatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
