package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/errors"
	"github.com/felixgeelhaar/laneplan/internal/graph"
	"github.com/felixgeelhaar/laneplan/internal/task"
	"github.com/felixgeelhaar/laneplan/internal/ux"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show task progress and plan drift",
	Long: `Show the status of every task in the plan, including the derived
blocked view: a pending task is reported blocked while any of its
dependencies is not done.

When a plan lock exists, the tasks document is also compared against
it to detect drift: tasks added, removed, or redefined since the plan
was last rendered.`,
	RunE: runStatus,
}

var (
	statusDir    string
	statusFormat string
	statusCheck  bool
)

func init() {
	statusCmd.Flags().StringVar(&statusDir, "dir", "", "plan directory containing tasks.md (default: .laneplan if present)")
	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", "text", "output format (text, json, yaml)")
	statusCmd.Flags().BoolVar(&statusCheck, "check", false, "exit with an error when drift is detected")

	rootCmd.AddCommand(statusCmd)
}

// taskStatus is one row of the status report
type taskStatus struct {
	ID      domain.TaskID   `json:"id" yaml:"id"`
	Title   string          `json:"title" yaml:"title"`
	Size    domain.Size     `json:"size" yaml:"size"`
	Status  domain.Status   `json:"status" yaml:"status"`
	Blocked bool            `json:"blocked" yaml:"blocked"`
	WaitsOn []domain.TaskID `json:"waits_on,omitempty" yaml:"waits_on,omitempty"`
}

// statusReport is the full status payload
type statusReport struct {
	Tasks []taskStatus `json:"tasks" yaml:"tasks"`
	Drift []task.Drift `json:"drift,omitempty" yaml:"drift,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir := statusDir
	if dir == "" {
		dir = ux.NewPathDefaults().PlanDir()
	}

	set, _, err := loadGraph(dir)
	if err != nil {
		return err
	}

	store, err := task.NewStore(set, func(candidate *task.Set) error {
		_, err := graph.Build(candidate)
		return err
	})
	if err != nil {
		return err
	}

	blocked := make(map[domain.TaskID]bool)
	for _, id := range store.BlockedTasks() {
		blocked[id] = true
	}

	report := statusReport{}
	for _, t := range set.All() {
		row := taskStatus{
			ID:      t.ID,
			Title:   t.Title,
			Size:    t.Size,
			Status:  t.Status,
			Blocked: blocked[t.ID],
		}
		if row.Blocked {
			row.WaitsOn = waitingOn(set, t)
		}
		report.Tasks = append(report.Tasks, row)
	}

	// Drift against the plan lock, when one exists. The lock lives in
	// the same directory the tasks document was loaded from.
	lockPath := ux.NewPathDefaults().LockFileIn(dir)
	if _, err := os.Stat(lockPath); err == nil {
		lock, err := task.LoadLock(lockPath)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileReadFailed, "read plan lock", err)
		}
		report.Drift, err = lock.Diff(set)
		if err != nil {
			return err
		}
	}

	if statusFormat == "text" {
		printStatusText(report)
	} else {
		formatter, err := ux.NewFormatter(statusFormat, nil)
		if err != nil {
			return err
		}
		if err := formatter.Format(report); err != nil {
			return err
		}
	}

	if statusCheck && len(report.Drift) > 0 {
		return errors.NewPlanDriftError(len(report.Drift))
	}

	return nil
}

func waitingOn(set *task.Set, t task.Task) []domain.TaskID {
	var waits []domain.TaskID
	for _, depID := range t.DependsOn {
		dep, ok := set.Get(depID)
		if !ok || dep.Status != domain.StatusDone {
			waits = append(waits, depID)
		}
	}
	return waits
}

func printStatusText(report statusReport) {
	fmt.Printf("Tasks (%d):\n", len(report.Tasks))
	for _, t := range report.Tasks {
		state := t.Status.String()
		if t.Blocked {
			parts := make([]string, len(t.WaitsOn))
			for i, id := range t.WaitsOn {
				parts[i] = id.String()
			}
			state = fmt.Sprintf("blocked (waits on %s)", strings.Join(parts, ", "))
		}
		fmt.Printf("  %s %s (%s) - %s\n", t.ID, t.Title, t.Size, state)
	}

	if len(report.Drift) == 0 {
		fmt.Printf("\n✓ No drift detected\n")
		return
	}

	fmt.Printf("\n⚠ Drift detected (%d finding(s)):\n", len(report.Drift))
	for _, d := range report.Drift {
		fmt.Printf("  %s: %s\n", d.Kind, d.ID)
	}
	fmt.Println("\nRecommendations:")
	fmt.Printf("  1. Re-render the plan: laneplan plan create\n")
}
