package taskdoc

import "strings"

// Plan section headings recognized by WritePlan
const (
	ExecutionPlanHeading = "## Execution Plan"
	BatchPlanHeading     = "## Batch Plan"
)

// WritePlan splices a rendered plan into a tasks-summary document.
// Existing Execution Plan and Batch Plan sections are replaced in place,
// even when other sections have been inserted between them; when absent
// the plan is appended. Every other byte of the document is preserved.
func WritePlan(doc []byte, rendered string) []byte {
	lines := strings.Split(string(doc), "\n")
	rendered = strings.TrimRight(rendered, "\n")

	ranges := planSectionRanges(lines)

	var out []string
	if len(ranges) == 0 {
		out = append(out, lines...)
		// Trim trailing blank lines before appending so the plan is
		// separated by exactly one.
		for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
			out = out[:len(out)-1]
		}
		out = append(out, "", rendered, "")
	} else {
		removed := make([]bool, len(lines))
		for _, r := range ranges {
			for i := r[0]; i < r[1]; i++ {
				removed[i] = true
			}
		}

		// The fresh plan takes the place of the first stale section;
		// every stale section is dropped wherever it sits.
		insertAt := ranges[0][0]
		out = append(out, lines[:insertAt]...)
		out = append(out, strings.Split(rendered, "\n")...)

		var tail []string
		for i := insertAt; i < len(lines); i++ {
			if !removed[i] {
				tail = append(tail, lines[i])
			}
		}
		for len(tail) > 0 && strings.TrimSpace(tail[0]) == "" {
			tail = tail[1:]
		}
		if len(tail) > 0 {
			out = append(out, "")
			out = append(out, tail...)
		}
	}

	// Documents end with a newline.
	if len(out) == 0 || out[len(out)-1] != "" {
		out = append(out, "")
	}

	return []byte(strings.Join(out, "\n"))
}

// planSectionRanges locates every existing plan section as a half-open
// line range [start, end), in document order. Each range runs from its
// heading to the next "## " heading or the end of the document, so the
// two plan sections are found even when a foreign section separates them.
func planSectionRanges(lines []string) [][2]int {
	var ranges [][2]int

	i := 0
	for i < len(lines) {
		if !isPlanHeading(strings.TrimSpace(lines[i])) {
			i++
			continue
		}

		start := i
		i++
		for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "## ") {
			i++
		}
		ranges = append(ranges, [2]int{start, i})
	}
	return ranges
}

func isPlanHeading(h string) bool {
	return h == ExecutionPlanHeading || h == BatchPlanHeading
}
