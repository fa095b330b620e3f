package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	initForce bool
	initYes   bool
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new plan directory",
	Long: `Initialize a .laneplan directory with a starter tasks document.

An interactive wizard asks for the project name and default batch size,
then scaffolds:

  .laneplan/tasks.md      - the tasks summary document
  .laneplan/task-1.0.md   - an example per-task detail file

Examples:
  # Initialize in the current directory
  laneplan init

  # Initialize in a specific directory
  laneplan init ./myproject

  # Skip the wizard and use defaults
  laneplan init --yes

  # Overwrite an existing plan directory
  laneplan init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing plan files")
	initCmd.Flags().BoolVar(&initYes, "yes", false, "skip the wizard and use defaults (non-interactive mode)")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving directory path: %w", err)
	}

	scaffoldDir := filepath.Join(absDir, ".laneplan")

	if _, err := os.Stat(scaffoldDir); err == nil && !initForce {
		return fmt.Errorf(".laneplan directory already exists at %s\nUse --force to overwrite existing files", scaffoldDir)
	}

	projectName := filepath.Base(absDir)
	batchSize := "5"

	if !initYes {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Project name").
					Description("Used as the title of the tasks document").
					Value(&projectName),
				huh.NewInput().
					Title("Default batch size").
					Description("Maximum tasks per review batch").
					Value(&batchSize).
					Validate(func(s string) error {
						n, err := strconv.Atoi(s)
						if err != nil || n < 1 {
							return fmt.Errorf("must be a number of 1 or greater")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("init wizard: %w", err)
		}
	}

	if err := os.MkdirAll(scaffoldDir, 0750); err != nil {
		return fmt.Errorf("create plan directory: %w", err)
	}

	tasksDoc := fmt.Sprintf(`# %s

## Tasks

- [ ] 1.0 Describe the first unit of work (M)
- [ ] 2.0 Describe a follow-up that depends on it (S)
`, projectName)

	firstTask := `---
dependencies: []
deliverables:
  - "describe what this task produces"
tests:
  - "describe how this task is verified"
---

# 1.0 Describe the first unit of work

Notes about scope and approach go here.
`

	secondTask := `---
dependencies: ["1.0"]
deliverables: []
tests: []
---

# 2.0 Describe a follow-up that depends on it
`

	files := map[string]string{
		"tasks.md":    tasksDoc,
		"task-1.0.md": firstTask,
		"task-2.0.md": secondTask,
	}

	for _, name := range []string{"tasks.md", "task-1.0.md", "task-2.0.md"} {
		content := files[name]
		path := filepath.Join(scaffoldDir, name)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Printf("✓ Created %s\n", path)
	}

	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s with your tasks\n", filepath.Join(scaffoldDir, "tasks.md"))
	fmt.Printf("  2. Validate the graph: laneplan plan validate\n")
	fmt.Printf("  3. Render the plan: laneplan plan create --batch-size %s\n", batchSize)

	return nil
}
