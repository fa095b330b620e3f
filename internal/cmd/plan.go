package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/laneplan/internal/batch"
	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/errors"
	"github.com/felixgeelhaar/laneplan/internal/graph"
	"github.com/felixgeelhaar/laneplan/internal/lane"
	"github.com/felixgeelhaar/laneplan/internal/log"
	"github.com/felixgeelhaar/laneplan/internal/report"
	"github.com/felixgeelhaar/laneplan/internal/task"
	"github.com/felixgeelhaar/laneplan/internal/taskdoc"
	"github.com/felixgeelhaar/laneplan/internal/tui"
	"github.com/felixgeelhaar/laneplan/internal/ux"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage execution plans",
	Long: `Generate, review, and manage execution plans from a tasks document.

Use 'laneplan plan create' to render a new plan into the tasks document.
Use 'laneplan plan validate' to check the dependency graph.
Use 'laneplan plan review' to interactively review a plan.
Use 'laneplan plan visualize' to print the dependency graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var planCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Render the execution plan into the tasks document",
	Long: `Resolve the task dependency graph and render the Execution Plan and
Batch Plan sections into the tasks summary document.

The plan includes the critical path, parallel execution lanes, and
review batches. A plan lock file records a hash of every task so later
runs can detect drift. Re-running replaces the previous plan sections
in place; the rest of the document is never touched.`,
	RunE: runPlanCreate,
}

var planValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the task dependency graph",
	Long: `Validate the tasks document for structural correctness.

Checks:
- Task lines and frontmatter parse cleanly
- No circular dependencies
- All task dependencies exist
- No duplicate or self-referencing dependencies`,
	RunE: runPlanValidate,
}

var planReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively review the execution plan",
	Long: `Launch an interactive terminal UI to review the execution plan.

The TUI allows you to:
- Walk the task list with critical-path tasks highlighted
- Inspect task dependencies and what each task unblocks
- Approve or reject the plan with a reason`,
	RunE: runPlanReview,
}

var planVisualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Visualize the dependency graph",
	Long: `Print the task dependency graph grouped by dependency layer.

Shows:
- Dependency layers in execution order
- What blocks each task
- The critical path through the plan`,
	RunE: runPlanVisualize,
}

var (
	planDir       string
	planMaxLanes  int
	planBatchSize int
	planDryRun    bool
	planVizFormat string
)

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planValidateCmd)
	planCmd.AddCommand(planReviewCmd)
	planCmd.AddCommand(planVisualizeCmd)

	planCmd.PersistentFlags().StringVar(&planDir, "dir", "", "plan directory containing tasks.md (default: .laneplan if present)")

	planCreateCmd.Flags().IntVar(&planMaxLanes, "max-lanes", 0, "maximum number of execution lanes (0 = unbounded)")
	planCreateCmd.Flags().IntVar(&planBatchSize, "batch-size", 5, "maximum tasks per batch")
	planCreateCmd.Flags().BoolVar(&planDryRun, "dry-run", false, "print the rendered plan without writing files")

	planReviewCmd.Flags().IntVar(&planMaxLanes, "max-lanes", 0, "maximum number of execution lanes (0 = unbounded)")

	planVisualizeCmd.Flags().StringVarP(&planVizFormat, "format", "f", "text", "output format (text, json, yaml)")
}

// resolvePlanDir applies the --dir flag or the path defaults
func resolvePlanDir() string {
	if planDir != "" {
		return planDir
	}
	return ux.NewPathDefaults().PlanDir()
}

// loadGraph reads the plan directory and resolves its dependency graph,
// translating failures into coded errors with suggestions.
func loadGraph(dir string) (*task.Set, *graph.Graph, error) {
	summaryPath := filepath.Join(dir, taskdoc.SummaryFileName)
	if _, err := os.Stat(summaryPath); os.IsNotExist(err) {
		return nil, nil, errors.NewDocNotFoundError(summaryPath)
	}

	set, err := taskdoc.LoadDir(dir)
	if err != nil {
		if _, ok := err.(*taskdoc.ParseError); ok {
			return nil, nil, errors.NewParseError(err)
		}
		return nil, nil, err
	}

	if set.Len() == 0 {
		return nil, nil, errors.New(errors.ErrCodeDocNoTasks, fmt.Sprintf("no tasks found in %s", summaryPath)).
			WithSuggestion("Task lines must look like: - [ ] 1.0 Title (S|M|L)")
	}

	g, err := graph.Build(set)
	if err != nil {
		return nil, nil, wrapGraphError(err)
	}

	return set, g, nil
}

func wrapGraphError(err error) error {
	switch err.(type) {
	case *graph.CycleError:
		return errors.NewCycleError(err)
	case *graph.UnknownDependencyError:
		return errors.NewUnknownDependencyError(err)
	default:
		return err
	}
}

func runPlanCreate(cmd *cobra.Command, args []string) error {
	logger := log.DefaultLogger()
	dir := resolvePlanDir()

	set, g, err := loadGraph(dir)
	if err != nil {
		return err
	}

	lanes := lane.Plan(g, lane.Options{MaxLanes: planMaxLanes})
	batches, err := batch.Group(g, planBatchSize)
	if err != nil {
		return errors.NewBatchSizeError(err)
	}

	planID := uuid.NewString()
	rendered := report.Render(g, lanes, batches, report.Options{
		PlanID:      planID,
		GeneratedAt: time.Now(),
	})

	if planDryRun {
		fmt.Println(rendered)
		return nil
	}

	summaryPath := filepath.Join(dir, taskdoc.SummaryFileName)
	doc, err := os.ReadFile(summaryPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileReadFailed, "read tasks document", err)
	}

	if err := os.WriteFile(summaryPath, taskdoc.WritePlan(doc, rendered), 0600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write tasks document", err)
	}

	lock, err := task.GenerateLock(set, planID)
	if err != nil {
		return err
	}
	lockPath := ux.NewPathDefaults().LockFileIn(dir)
	if err := task.SaveLock(lock, lockPath); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write plan lock", err)
	}

	logger.Info("plan rendered", "plan_id", planID, "tasks", set.Len(), "lanes", len(lanes), "batches", len(batches))

	path, days := g.CriticalPath()
	fmt.Printf("✓ Rendered plan for %d tasks into %s\n", set.Len(), summaryPath)
	fmt.Printf("  Critical path: %s (%.1f days)\n", joinIDStrings(path), days)
	fmt.Printf("  Lanes: %d | Batches: %d\n", len(lanes), len(batches))
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Review plan: laneplan plan review\n")
	fmt.Printf("  2. Track progress: laneplan status\n")

	return nil
}

func runPlanValidate(cmd *cobra.Command, args []string) error {
	dir := resolvePlanDir()
	summaryPath := filepath.Join(dir, taskdoc.SummaryFileName)

	fmt.Printf("Validating plan: %s\n\n", summaryPath)

	if _, err := os.Stat(summaryPath); os.IsNotExist(err) {
		return errors.NewDocNotFoundError(summaryPath)
	}

	fmt.Printf("Parsing tasks document... ")
	set, err := taskdoc.LoadDir(dir)
	if err != nil {
		fmt.Printf("❌ FAILED\n")
		return errors.NewParseError(err)
	}
	if set.Len() == 0 {
		fmt.Printf("❌ FAILED\n")
		return errors.New(errors.ErrCodeDocNoTasks, fmt.Sprintf("no tasks found in %s", summaryPath))
	}
	fmt.Printf("✓ OK (%d tasks)\n", set.Len())

	fmt.Printf("Resolving dependency graph... ")
	g, err := graph.Build(set)
	if err != nil {
		fmt.Printf("❌ FAILED\n  %v\n", err)
		return wrapGraphError(err)
	}
	fmt.Printf("✓ OK\n")

	path, days := g.CriticalPath()
	fmt.Printf("\n✓ Plan is valid (%d tasks, %d layers)\n", g.Len(), len(g.Layers()))
	fmt.Printf("  Critical path: %s (%.1f days)\n", joinIDStrings(path), days)

	return nil
}

func runPlanReview(cmd *cobra.Command, args []string) error {
	dir := resolvePlanDir()

	_, g, err := loadGraph(dir)
	if err != nil {
		return err
	}

	lanes := lane.Plan(g, lane.Options{MaxLanes: planMaxLanes})

	fmt.Printf("=== Plan Review (TUI) ===\n")
	fmt.Printf("Plan: %s (%d tasks)\n\n", filepath.Join(dir, taskdoc.SummaryFileName), g.Len())

	result, err := tui.RunReview(g, lanes)
	if err != nil {
		return fmt.Errorf("running plan review TUI: %w", err)
	}

	if result.Approved {
		fmt.Printf("\n✓ Plan approved\n")
		fmt.Println("\nNext steps:")
		fmt.Printf("  1. Render plan: laneplan plan create\n")
	} else {
		fmt.Printf("\n✗ Plan rejected\n")
		if result.Reason != "" {
			fmt.Printf("  Reason: %s\n", result.Reason)
		}
		fmt.Println("\nNext steps:")
		fmt.Printf("  1. Edit the task files\n")
		fmt.Printf("  2. Validate again: laneplan plan validate\n")
	}

	return nil
}

func runPlanVisualize(cmd *cobra.Command, args []string) error {
	dir := resolvePlanDir()

	_, g, err := loadGraph(dir)
	if err != nil {
		return err
	}

	path, days := g.CriticalPath()

	if planVizFormat != "text" {
		formatter, err := ux.NewFormatter(planVizFormat, nil)
		if err != nil {
			return err
		}
		return formatter.Format(struct {
			Layers       [][]domain.TaskID `json:"layers" yaml:"layers"`
			CriticalPath []domain.TaskID   `json:"critical_path" yaml:"critical_path"`
			TotalDays    float64           `json:"total_days" yaml:"total_days"`
		}{
			Layers:       g.Layers(),
			CriticalPath: path,
			TotalDays:    days,
		})
	}

	onPath := make(map[string]bool, len(path))
	for _, id := range path {
		onPath[id.String()] = true
	}

	fmt.Printf("=== Plan Visualization ===\n\n")
	fmt.Printf("Plan: %s (%d tasks)\n\n", filepath.Join(dir, taskdoc.SummaryFileName), g.Len())

	for i, layer := range g.Layers() {
		fmt.Printf("Layer %d:\n", i+1)
		for _, id := range layer {
			t, _ := g.Task(id)

			marker := " "
			if onPath[id.String()] {
				marker = "*"
			}

			deps := "none"
			if blockedBy := g.BlockedByOf(id); len(blockedBy) > 0 {
				parts := make([]string, len(blockedBy))
				for j, dep := range blockedBy {
					parts[j] = dep.String()
				}
				deps = strings.Join(parts, ", ")
			}

			fmt.Printf("  %s %s %s (%s) - depends on: %s\n", marker, id, t.Title, t.Size, deps)
		}
		fmt.Println()
	}

	fmt.Printf("* critical path: %s (%.1f days)\n", joinIDStrings(path), days)

	return nil
}

func joinIDStrings(ids []domain.TaskID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, " -> ")
}
