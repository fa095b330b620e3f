package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lperrors "github.com/felixgeelhaar/laneplan/internal/errors"
)

func TestRunStatusReportsDriftWithCheck(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll(".laneplan", 0750))
	tasksPath := filepath.Join(".laneplan", "tasks.md")
	require.NoError(t, os.WriteFile(tasksPath, []byte(validTasksDoc), 0600))

	planDir = ""
	planMaxLanes = 0
	planBatchSize = 5
	planDryRun = false
	require.NoError(t, runPlanCreate(planCreateCmd, nil))

	statusDir = ""
	statusFormat = "text"
	statusCheck = true

	// No edits since the render: clean.
	require.NoError(t, runStatus(statusCmd, nil))

	// Redefine a task; the lock hash no longer matches.
	doc, err := os.ReadFile(tasksPath)
	require.NoError(t, err)
	edited := []byte(strings.Replace(string(doc), "- [ ] 1.0 Scaffold store (M)", "- [ ] 1.0 Scaffold store (L)", 1))
	require.NoError(t, os.WriteFile(tasksPath, edited, 0600))

	err = runStatus(statusCmd, nil)
	require.Error(t, err)

	var lpErr *lperrors.LaneplanError
	require.ErrorAs(t, err, &lpErr)
	assert.Equal(t, lperrors.ErrCodePlanDrift, lpErr.Code)
}

func TestRunStatusWithDirChecksThatDirLock(t *testing.T) {
	t.Chdir(t.TempDir())

	dir := writePlanDir(t, map[string]string{
		"tasks.md": validTasksDoc,
	})
	tasksPath := filepath.Join(dir, "tasks.md")

	planDir = dir
	planMaxLanes = 0
	planBatchSize = 5
	planDryRun = false
	defer func() { planDir = "" }()
	require.NoError(t, runPlanCreate(planCreateCmd, nil))

	statusDir = dir
	statusFormat = "text"
	statusCheck = true
	defer func() { statusDir = "" }()

	// The lock written next to the tasks document is the one checked.
	require.NoError(t, runStatus(statusCmd, nil))

	doc, err := os.ReadFile(tasksPath)
	require.NoError(t, err)
	edited := []byte(strings.Replace(string(doc), "- [ ] 2.0 Graph resolver (L)", "- [ ] 2.0 Graph resolver (S)", 1))
	require.NoError(t, os.WriteFile(tasksPath, edited, 0600))

	err = runStatus(statusCmd, nil)
	require.Error(t, err)

	var lpErr *lperrors.LaneplanError
	require.ErrorAs(t, err, &lpErr)
	assert.Equal(t, lperrors.ErrCodePlanDrift, lpErr.Code)
}

func TestRunStatusWithoutCheckOnlyReports(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll(".laneplan", 0750))
	require.NoError(t, os.WriteFile(filepath.Join(".laneplan", "tasks.md"), []byte(validTasksDoc), 0600))

	statusDir = ""
	statusFormat = "text"
	statusCheck = false

	// No lock file yet; status still succeeds.
	require.NoError(t, runStatus(statusCmd, nil))
}

func TestRunStatusJSONFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll(".laneplan", 0750))
	require.NoError(t, os.WriteFile(filepath.Join(".laneplan", "tasks.md"), []byte(validTasksDoc), 0600))

	statusDir = ""
	statusFormat = "json"
	statusCheck = false

	require.NoError(t, runStatus(statusCmd, nil))
}
