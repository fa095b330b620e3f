package taskdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/laneplan/internal/domain"
)

const summaryDoc = `# Example Project Tasks

Some introduction prose that the parser must ignore.

## Tasks

- [ ] 1.0 Set up repository (S)
- [ ] 2.0 Build the parser (M)
- [x] 3.0 Write project brief (L)

## Notes

- this bullet is prose, not a task
- so is this one
`

func TestParseSummary(t *testing.T) {
	set, err := ParseSummary([]byte(summaryDoc))
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())

	first, ok := set.Get(domain.TaskID("1.0"))
	require.True(t, ok)
	assert.Equal(t, "Set up repository", first.Title)
	assert.Equal(t, domain.SizeS, first.Size)
	assert.Equal(t, domain.StatusPending, first.Status)

	done, ok := set.Get(domain.TaskID("3.0"))
	require.True(t, ok)
	assert.Equal(t, domain.StatusDone, done.Status, "checked box means done")
	assert.Equal(t, domain.SizeL, done.Size)
}

func TestParseSummaryDeclarationOrder(t *testing.T) {
	set, err := ParseSummary([]byte(summaryDoc))
	require.NoError(t, err)

	var got []string
	for _, tk := range set.All() {
		got = append(got, tk.ID.String())
	}
	assert.Equal(t, []string{"1.0", "2.0", "3.0"}, got)
}

func TestParseSummaryErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		reason string
	}{
		{
			name:   "missing size tag",
			doc:    "- [ ] 1.0 No size here\n",
			reason: "malformed task line",
		},
		{
			name:   "invalid size tag",
			doc:    "- [ ] 1.0 Wrong size (XL)\n",
			reason: "malformed task line",
		},
		{
			name:   "invalid id",
			doc:    "- [ ] Not-An-Id Title (M)\n",
			reason: "task ID",
		},
		{
			name:   "duplicate id",
			doc:    "- [ ] 1.0 First (S)\n- [ ] 1.0 Second (M)\n",
			reason: "duplicate task ID",
		},
		{
			name:   "no tasks at all",
			doc:    "# Just a heading\n\nProse only.\n",
			reason: "no task checklist items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSummary([]byte(tt.doc))
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Error(), tt.reason)
		})
	}
}

func TestParseSummaryReportsLineNumbers(t *testing.T) {
	doc := "# Tasks\n\n- [ ] 1.0 Fine (S)\n- [ ] 2.0 Broken\n"
	_, err := ParseSummary([]byte(doc))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 4, perr.Line)
}

const taskFileDoc = `---
dependencies: ["1.0", "2.0"]
deliverables:
  - internal/parser/parser.go
tests:
  - internal/parser/parser_test.go
---

# 3.0 Write project brief

Free-form notes the parser does not interpret.
`

func TestParseTaskFile(t *testing.T) {
	detail, err := ParseTaskFile([]byte(taskFileDoc))
	require.NoError(t, err)

	assert.Equal(t, []domain.TaskID{"1.0", "2.0"}, detail.Dependencies)
	assert.Equal(t, []string{"internal/parser/parser.go"}, detail.Deliverables)
	assert.Equal(t, []string{"internal/parser/parser_test.go"}, detail.Tests)
}

func TestParseTaskFileWithoutFrontmatter(t *testing.T) {
	detail, err := ParseTaskFile([]byte("# 1.0 Just notes\n"))
	require.NoError(t, err)
	assert.Empty(t, detail.Dependencies)
}

func TestParseTaskFileRejectsUnquotedNumericIDs(t *testing.T) {
	doc := "---\ndependencies: [1.0]\n---\n# notes\n"
	_, err := ParseTaskFile([]byte(doc))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "quote task ids")
}

func TestParseTaskFileRejectsScalarDependencies(t *testing.T) {
	doc := "---\ndependencies: just-one\n---\n# notes\n"
	_, err := ParseTaskFile([]byte(doc))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "expected a list")
}
