package taskdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renderedPlan = `## Execution Plan

**Critical path** (2 days): 1.0 -> 2.0

### Lanes

| Lane | Tasks | Days |
|------|-------|------|
| 1 | 1.0, 2.0 | 2 |

## Batch Plan

1. Batch 1: 1.0, 2.0`

func TestWritePlanAppends(t *testing.T) {
	doc := "# Tasks\n\n- [ ] 1.0 Foundation (S)\n- [ ] 2.0 Parser (M)\n"

	out := string(WritePlan([]byte(doc), renderedPlan))

	assert.Contains(t, out, "- [ ] 1.0 Foundation (S)")
	assert.Contains(t, out, "## Execution Plan")
	assert.Contains(t, out, "## Batch Plan")
	assert.Less(t, strings.Index(out, "2.0 Parser"), strings.Index(out, "## Execution Plan"),
		"plan is appended after the checklist")
}

func TestWritePlanReplacesExistingSections(t *testing.T) {
	doc := "# Tasks\n\n- [ ] 1.0 Foundation (S)\n\n" + renderedPlan + "\n\n## Appendix\n\nKeep me.\n"

	updated := strings.Replace(renderedPlan, "(2 days)", "(5 days)", 1)
	out := string(WritePlan([]byte(doc), updated))

	assert.Equal(t, 1, strings.Count(out, "## Execution Plan"))
	assert.Equal(t, 1, strings.Count(out, "## Batch Plan"))
	assert.Contains(t, out, "(5 days)")
	assert.NotContains(t, out, "(2 days)")
	assert.Contains(t, out, "## Appendix")
	assert.Contains(t, out, "Keep me.")
}

func TestWritePlanReplacesSectionsSplitByForeignHeading(t *testing.T) {
	doc := strings.Join([]string{
		"# Tasks",
		"",
		"- [ ] 1.0 Foundation (S)",
		"",
		"## Execution Plan",
		"",
		"stale exec content",
		"",
		"## Notes",
		"",
		"Hand-written, must survive.",
		"",
		"## Batch Plan",
		"",
		"1. Batch 1: stale",
		"",
	}, "\n")

	out := string(WritePlan([]byte(doc), renderedPlan))

	assert.Equal(t, 1, strings.Count(out, "## Execution Plan"))
	assert.Equal(t, 1, strings.Count(out, "## Batch Plan"))
	assert.NotContains(t, out, "stale exec content")
	assert.NotContains(t, out, "Batch 1: stale")
	assert.Contains(t, out, "## Notes")
	assert.Contains(t, out, "Hand-written, must survive.")

	// A second rewrite over the healed document stays clean.
	twice := string(WritePlan([]byte(out), renderedPlan))
	assert.Equal(t, 1, strings.Count(twice, "## Batch Plan"))
	assert.Contains(t, twice, "Hand-written, must survive.")
}

func TestWritePlanIsStableAcrossRewrites(t *testing.T) {
	doc := []byte("# Tasks\n\n- [ ] 1.0 Foundation (S)\n")

	once := WritePlan(doc, renderedPlan)
	twice := WritePlan(once, renderedPlan)
	require.Equal(t, string(once), string(twice))
}
