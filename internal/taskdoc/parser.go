// Package taskdoc reads and writes the Markdown task documents laneplan
// plans from: a tasks-summary checklist plus optional per-task detail
// files carrying YAML frontmatter.
package taskdoc

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/task"
)

// taskLinePattern matches the body of a summary checklist item:
// "[ ] 1.0 Title (M)" or "[x] setup-db Title (S)".
var taskLinePattern = regexp.MustCompile(`^\[([ xX])\]\s+(\S+)\s+(.+?)\s+\((S|M|L)\)$`)

// ParseSummary parses a tasks-summary document into a task set.
// Checklist items are task declarations; a checked box means the task is
// done, an unchecked one pending. Everything else in the document is
// ignored.
func ParseSummary(source []byte) (*task.Set, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	set := task.NewSet()

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		item, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}

		raw, line := firstLineOf(item, source)
		if raw == "" || raw[0] != '[' {
			// Not a checklist item; plain bullets are prose, not tasks.
			return ast.WalkSkipChildren, nil
		}

		t, perr := parseTaskLine(raw, line)
		if perr != nil {
			return ast.WalkStop, perr
		}
		if err := set.Add(t); err != nil {
			return ast.WalkStop, &ParseError{Line: line, Reason: err.Error()}
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	if set.Len() == 0 {
		return nil, &ParseError{Reason: "document contains no task checklist items"}
	}

	return set, nil
}

// parseTaskLine turns "[ ] 1.0 Title (M)" into a Task
func parseTaskLine(raw string, line int) (task.Task, *ParseError) {
	m := taskLinePattern.FindStringSubmatch(raw)
	if m == nil {
		return task.Task{}, &ParseError{Line: line, Reason: fmt.Sprintf("malformed task line %q: want \"[ ] <id> <title> (S|M|L)\"", raw)}
	}

	checked, idStr, title, sizeStr := m[1], m[2], m[3], m[4]

	id, err := domain.NewTaskID(idStr)
	if err != nil {
		return task.Task{}, &ParseError{Line: line, Reason: err.Error()}
	}

	size, err := domain.NewSize(sizeStr)
	if err != nil {
		return task.Task{}, &ParseError{Line: line, Reason: err.Error()}
	}

	status := domain.StatusPending
	if checked != " " {
		status = domain.StatusDone
	}

	return task.Task{
		ID:     id,
		Title:  strings.TrimSpace(title),
		Size:   size,
		Status: status,
	}, nil
}

// firstLineOf returns the raw text of the list item's first line and its
// 1-based line number in the source.
func firstLineOf(item *ast.ListItem, source []byte) (string, int) {
	child := item.FirstChild()
	if child == nil {
		return "", 0
	}
	lines := child.Lines()
	if lines == nil || lines.Len() == 0 {
		return "", 0
	}
	seg := lines.At(0)
	line := 1 + bytes.Count(source[:seg.Start], []byte{'\n'})
	return strings.TrimSpace(string(seg.Value(source))), line
}

// Detail holds the fields a per-task file contributes on top of the
// summary declaration.
type Detail struct {
	Dependencies []domain.TaskID
	Deliverables []string
	Tests        []string
}

// ParseTaskFile extracts the YAML frontmatter of a per-task detail file.
// A file without frontmatter contributes nothing.
func ParseTaskFile(source []byte) (*Detail, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(source, &buf, parser.WithContext(pctx)); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("parse markdown: %v", err)}
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return &Detail{}, nil
	}

	detail := &Detail{}

	deps, err := stringList(metaData, "dependencies")
	if err != nil {
		return nil, err
	}
	for _, d := range deps {
		id, err := domain.NewTaskID(d)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("dependencies: %v", err)}
		}
		detail.Dependencies = append(detail.Dependencies, id)
	}

	if detail.Deliverables, err = stringList(metaData, "deliverables"); err != nil {
		return nil, err
	}
	if detail.Tests, err = stringList(metaData, "tests"); err != nil {
		return nil, err
	}

	return detail, nil
}

// stringList reads a frontmatter key as a list of strings. Task ids must
// be quoted in the YAML; bare 1.0 decodes as a float and is rejected here
// rather than silently mangled.
func stringList(metaData map[string]interface{}, key string) ([]string, error) {
	v, ok := metaData[key]
	if !ok || v == nil {
		return nil, nil
	}

	items, ok := v.([]interface{})
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("%s: expected a list, got %T", key, v)}
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("%s[%d]: expected a string, got %T (quote task ids in YAML)", key, i, item)}
		}
		out = append(out, s)
	}
	return out, nil
}
