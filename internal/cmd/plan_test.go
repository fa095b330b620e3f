package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lperrors "github.com/felixgeelhaar/laneplan/internal/errors"
)

func writePlanDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

const validTasksDoc = `# Demo

## Tasks

- [ ] 1.0 Scaffold store (M)
- [ ] 2.0 Graph resolver (L)
- [ ] 3.0 Report output (S)
`

func TestLoadGraphMissingDocument(t *testing.T) {
	_, _, err := loadGraph(t.TempDir())
	require.Error(t, err)

	var lpErr *lperrors.LaneplanError
	require.ErrorAs(t, err, &lpErr)
	assert.Equal(t, lperrors.ErrCodeDocNotFound, lpErr.Code)
}

func TestLoadGraphValidDocument(t *testing.T) {
	dir := writePlanDir(t, map[string]string{
		"tasks.md": validTasksDoc,
		"task-2.0.md": `---
dependencies: ["1.0"]
---
`,
	})

	set, g, err := loadGraph(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, 2, len(g.Layers()))
}

func TestLoadGraphMalformedDocument(t *testing.T) {
	dir := writePlanDir(t, map[string]string{
		"tasks.md": "# Demo\n\n- [ ] 1.0 No size marker\n",
	})

	_, _, err := loadGraph(dir)
	require.Error(t, err)

	var lpErr *lperrors.LaneplanError
	require.ErrorAs(t, err, &lpErr)
	assert.Equal(t, lperrors.ErrCodeDocParse, lpErr.Code)
}

func TestLoadGraphCycle(t *testing.T) {
	dir := writePlanDir(t, map[string]string{
		"tasks.md": validTasksDoc,
		"task-1.0.md": `---
dependencies: ["2.0"]
---
`,
		"task-2.0.md": `---
dependencies: ["1.0"]
---
`,
	})

	_, _, err := loadGraph(dir)
	require.Error(t, err)

	var lpErr *lperrors.LaneplanError
	require.ErrorAs(t, err, &lpErr)
	assert.Equal(t, lperrors.ErrCodeGraphCycle, lpErr.Code)
}

func TestLoadGraphUnknownDependency(t *testing.T) {
	dir := writePlanDir(t, map[string]string{
		"tasks.md": validTasksDoc,
		"task-1.0.md": `---
dependencies: ["9.9"]
---
`,
	})

	_, _, err := loadGraph(dir)
	require.Error(t, err)

	var lpErr *lperrors.LaneplanError
	require.ErrorAs(t, err, &lpErr)
	assert.Equal(t, lperrors.ErrCodeGraphUnknownDep, lpErr.Code)
}

func TestRunPlanCreateRendersPlanAndLock(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll(".laneplan", 0750))
	require.NoError(t, os.WriteFile(filepath.Join(".laneplan", "tasks.md"), []byte(validTasksDoc), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(".laneplan", "task-2.0.md"), []byte("---\ndependencies: [\"1.0\"]\n---\n"), 0600))

	planDir = ""
	planMaxLanes = 0
	planBatchSize = 2
	planDryRun = false

	require.NoError(t, runPlanCreate(planCreateCmd, nil))

	doc, err := os.ReadFile(filepath.Join(".laneplan", "tasks.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "## Execution Plan")
	assert.Contains(t, string(doc), "## Batch Plan")
	assert.Contains(t, string(doc), "**Critical path**")

	_, err = os.Stat(filepath.Join(".laneplan", "plan.lock.json"))
	assert.NoError(t, err, "plan lock should be written")

	// Re-running replaces the plan sections instead of duplicating them.
	require.NoError(t, runPlanCreate(planCreateCmd, nil))
	doc2, err := os.ReadFile(filepath.Join(".laneplan", "tasks.md"))
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(string(doc2), "## Execution Plan"))
}

func TestRunPlanCreateWithDirWritesLockThere(t *testing.T) {
	cwd := t.TempDir()
	t.Chdir(cwd)

	dir := writePlanDir(t, map[string]string{
		"tasks.md": validTasksDoc,
	})

	planDir = dir
	planMaxLanes = 0
	planBatchSize = 5
	planDryRun = false
	defer func() { planDir = "" }()

	require.NoError(t, runPlanCreate(planCreateCmd, nil))

	_, err := os.Stat(filepath.Join(dir, "plan.lock.json"))
	assert.NoError(t, err, "plan lock should live next to the tasks document")

	_, err = os.Stat(filepath.Join(cwd, ".laneplan"))
	assert.True(t, os.IsNotExist(err), "no stray .laneplan in the working directory")
}

func TestRunPlanValidateReportsCycle(t *testing.T) {
	dir := writePlanDir(t, map[string]string{
		"tasks.md": validTasksDoc,
		"task-1.0.md": `---
dependencies: ["3.0"]
---
`,
		"task-3.0.md": `---
dependencies: ["1.0"]
---
`,
	})

	planDir = dir
	defer func() { planDir = "" }()

	err := runPlanValidate(planValidateCmd, nil)
	require.Error(t, err)

	var lpErr *lperrors.LaneplanError
	require.ErrorAs(t, err, &lpErr)
	assert.Equal(t, lperrors.ErrCodeGraphCycle, lpErr.Code)
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
		}
	}
	return count
}
