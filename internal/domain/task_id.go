package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TaskID represents a unique identifier for a task.
// This is a value object that enforces valid ID formats.
type TaskID string

var (
	// numericIDPattern matches dotted numeric ids as they appear in a tasks
	// summary checklist, e.g. "1.0" or "2.3.1"
	numericIDPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

	// slugIDPattern matches kebab-case ids: starts with a letter, then
	// lowercase letters, numbers, and hyphens
	slugIDPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

	// maxTaskIDLength is the maximum allowed length for a task ID
	maxTaskIDLength = 100
)

// NewTaskID creates a new TaskID value object with validation
func NewTaskID(value string) (TaskID, error) {
	id := TaskID(value)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks if the task ID is valid
func (t TaskID) Validate() error {
	s := string(t)

	if s == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	if len(s) > maxTaskIDLength {
		return fmt.Errorf("task ID %q exceeds maximum length of %d characters", s, maxTaskIDLength)
	}

	if numericIDPattern.MatchString(s) {
		return nil
	}

	if !slugIDPattern.MatchString(s) {
		return fmt.Errorf("task ID %q must be a dotted number (e.g. 1.0) or start with a letter and contain only lowercase letters, numbers, and hyphens", s)
	}

	if strings.Contains(s, "--") {
		return fmt.Errorf("task ID %q cannot contain consecutive hyphens", s)
	}

	if strings.HasSuffix(s, "-") {
		return fmt.Errorf("task ID %q cannot end with a hyphen", s)
	}

	return nil
}

// String returns the string representation
func (t TaskID) String() string {
	return string(t)
}

// Equals checks if this task ID equals another
func (t TaskID) Equals(other TaskID) bool {
	return t == other
}

// Less orders task ids for stable output. Dotted numeric ids compare
// segment by segment as numbers, so 2.0 sorts before 10.0; any other
// pair falls back to plain string order.
func (t TaskID) Less(other TaskID) bool {
	a, aOK := numericSegments(string(t))
	b, bOK := numericSegments(string(other))
	if !aOK || !bOK {
		return t < other
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func numericSegments(s string) ([]int, bool) {
	if !numericIDPattern.MatchString(s) {
		return nil, false
	}
	parts := strings.Split(s, ".")
	segs := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		segs[i] = n
	}
	return segs, true
}
