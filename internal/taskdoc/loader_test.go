package taskdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/laneplan/internal/domain"
)

func writePlanDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writePlanDir(t, map[string]string{
		"tasks.md": "# Tasks\n\n- [ ] 1.0 Foundation (S)\n- [ ] 2.0 Parser (M)\n",
		"task-2.0.md": `---
dependencies: ["1.0"]
deliverables:
  - internal/parser/parser.go
---
# 2.0 Parser
`,
	})

	set, err := LoadDir(dir)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	parser, ok := set.Get(domain.TaskID("2.0"))
	require.True(t, ok)
	assert.Equal(t, []domain.TaskID{"1.0"}, parser.DependsOn)
	assert.Equal(t, []string{"internal/parser/parser.go"}, parser.Deliverables)

	foundation, ok := set.Get(domain.TaskID("1.0"))
	require.True(t, ok)
	assert.Empty(t, foundation.DependsOn, "summary-only task has no dependencies")
}

func TestLoadDirMissingSummary(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.ErrorContains(t, err, "read tasks summary")
}

func TestLoadDirParseErrorCarriesPath(t *testing.T) {
	dir := writePlanDir(t, map[string]string{
		"tasks.md": "- [ ] 1.0 Broken\n",
	})

	_, err := LoadDir(dir)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, filepath.Join(dir, "tasks.md"), perr.Path)
}

func TestLoadDirBadTaskFile(t *testing.T) {
	dir := writePlanDir(t, map[string]string{
		"tasks.md":    "- [ ] 1.0 Fine (S)\n",
		"task-1.0.md": "---\ndependencies: [1.0]\n---\n",
	})

	_, err := LoadDir(dir)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, filepath.Join(dir, "task-1.0.md"), perr.Path)
}
