package taskdoc

import "fmt"

// ParseError reports a malformed tasks document. Line is 1-based and
// refers to the summary or task file the error was found in; zero means
// the error is not tied to a single line.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("parse %s:%d: %s", e.Path, e.Line, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("parse %s: %s", e.Path, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("parse line %d: %s", e.Line, e.Reason)
	default:
		return fmt.Sprintf("parse: %s", e.Reason)
	}
}
