package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/laneplan/internal/batch"
	"github.com/felixgeelhaar/laneplan/internal/graph"
	"github.com/felixgeelhaar/laneplan/internal/taskdoc"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// GraphError indicates a dependency cycle or unknown dependency
	GraphError = 3

	// ParseFailure indicates a malformed tasks document
	ParseFailure = 4

	// DriftDetected indicates the tasks document diverged from the rendered plan
	DriftDetected = 5

	// Interrupted indicates the operation was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Typed errors are matched first; message sniffing is a fallback for errors
// that crossed a fmt.Errorf boundary without wrapping.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var cycleErr *graph.CycleError
	var unknownErr *graph.UnknownDependencyError
	var sizeErr *batch.InvalidBatchSizeError
	var parseErr *taskdoc.ParseError

	switch {
	case stderrors.As(err, &cycleErr), stderrors.As(err, &unknownErr):
		return GraphError
	case stderrors.As(err, &sizeErr):
		return UsageError
	case stderrors.As(err, &parseErr):
		return ParseFailure
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "circular dependency") || strings.Contains(errMsg, "unknown task") {
		return GraphError
	}
	if strings.Contains(errMsg, "drift detected") {
		return DriftDetected
	}
	if strings.Contains(errMsg, "parse") && strings.Contains(errMsg, "malformed") {
		return ParseFailure
	}
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "invalid batch size") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case GraphError:
		return "Dependency graph error (cycle or unknown dependency)"
	case ParseFailure:
		return "Malformed tasks document"
	case DriftDetected:
		return "Plan drift detected"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
