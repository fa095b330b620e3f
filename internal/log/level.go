package log

import "log/slog"

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug traces parsing and graph resolution step by step
	LevelDebug Level = iota
	// LevelInfo reports plan renders and other normal operations
	LevelInfo
	// LevelWarn flags conditions worth a look, like detected drift
	LevelWarn
	// LevelError reports failures that abort a command
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ToSlogLevel maps a Level onto the slog level the handlers consume
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a --log-level flag value. Unrecognized values fall
// back to info rather than failing the command.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}
