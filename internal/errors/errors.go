package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Document errors (DOC-001 to DOC-099)
	ErrCodeDocNotFound ErrorCode = "DOC-001"
	ErrCodeDocParse    ErrorCode = "DOC-002"
	ErrCodeDocNoTasks  ErrorCode = "DOC-003"

	// Graph errors (GRAPH-001 to GRAPH-099)
	ErrCodeGraphCycle      ErrorCode = "GRAPH-001"
	ErrCodeGraphUnknownDep ErrorCode = "GRAPH-002"

	// Plan errors (PLAN-001 to PLAN-099)
	ErrCodePlanBatchSize  ErrorCode = "PLAN-001"
	ErrCodePlanDrift      ErrorCode = "PLAN-002"
	ErrCodePlanLockStale  ErrorCode = "PLAN-003"
	ErrCodePlanTransition ErrorCode = "PLAN-004"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
)

// LaneplanError represents an enhanced error with code, suggestions, and documentation
type LaneplanError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *LaneplanError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *LaneplanError) Unwrap() error {
	return e.Cause
}

// New creates a new LaneplanError
func New(code ErrorCode, message string) *LaneplanError {
	return &LaneplanError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new LaneplanError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *LaneplanError {
	return &LaneplanError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *LaneplanError) WithSuggestion(suggestion string) *LaneplanError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *LaneplanError) WithSuggestions(suggestions ...string) *LaneplanError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *LaneplanError) WithDocs(url string) *LaneplanError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewCycleError wraps a graph cycle failure.
// A cycle must be fixed in the task documents; there is no
// automatic repair.
func NewCycleError(cause error) *LaneplanError {
	return Wrap(ErrCodeGraphCycle, "task dependencies form a cycle", cause).
		WithSuggestion("Break the cycle by removing one of the listed dependencies").
		WithSuggestion("Run 'laneplan plan validate' after editing the task files").
		WithDocs("https://github.com/felixgeelhaar/laneplan#dependency-cycles")
}

// NewUnknownDependencyError wraps a dangling dependency failure
func NewUnknownDependencyError(cause error) *LaneplanError {
	return Wrap(ErrCodeGraphUnknownDep, "task depends on an unknown task", cause).
		WithSuggestion("Check the dependencies list for typos").
		WithSuggestion("Add the missing task to the tasks summary").
		WithDocs("https://github.com/felixgeelhaar/laneplan#dependencies")
}

// NewParseError wraps a malformed document failure
func NewParseError(cause error) *LaneplanError {
	return Wrap(ErrCodeDocParse, "tasks document is malformed", cause).
		WithSuggestion("Task lines must look like: - [ ] 1.0 Title (S|M|L)").
		WithSuggestion("Quote task ids in YAML frontmatter lists").
		WithDocs("https://github.com/felixgeelhaar/laneplan#document-format")
}

// NewBatchSizeError wraps an invalid batch size failure
func NewBatchSizeError(cause error) *LaneplanError {
	return Wrap(ErrCodePlanBatchSize, "invalid batch size", cause).
		WithSuggestion("Pass --batch-size with a value of 1 or greater")
}

// NewDocNotFoundError creates a missing tasks document error
func NewDocNotFoundError(path string) *LaneplanError {
	return New(ErrCodeDocNotFound, fmt.Sprintf("tasks document not found: %s", path)).
		WithSuggestion("Run 'laneplan init' to scaffold a plan directory").
		WithSuggestion("Pass --dir if the plan lives somewhere else")
}

// NewPlanDriftError creates a drift detection error
func NewPlanDriftError(count int) *LaneplanError {
	return New(ErrCodePlanDrift, fmt.Sprintf("plan drift detected: %d task(s) changed since the plan was rendered", count)).
		WithSuggestion("Re-run 'laneplan plan create' to sync the plan with the tasks document").
		WithDocs("https://github.com/felixgeelhaar/laneplan#drift-detection")
}
