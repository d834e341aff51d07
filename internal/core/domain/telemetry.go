package domain

import "strings"

// FrameStatus represents how a frame's analysis was obtained during tracking.
type FrameStatus string

const (
	// FrameStatusPending indicates the frame has not been analyzed yet.
	FrameStatusPending FrameStatus = "pending"
	// FrameStatusAnalyzed indicates region statistics were computed for the frame.
	FrameStatusAnalyzed FrameStatus = "analyzed"
	// FrameStatusCached indicates region statistics were served from the analysis cache.
	FrameStatusCached FrameStatus = "cached"
	// FrameStatusFailed indicates the frame could not be analyzed.
	FrameStatusFailed FrameStatus = "failed"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLogLevel converts a level name to a LogLevel. It reports false for unknown names.
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LogLevelDebug, true
	case "INFO":
		return LogLevelInfo, true
	case "WARN", "WARNING":
		return LogLevelWarn, true
	case "ERROR":
		return LogLevelError, true
	default:
		return LogLevelInfo, false
	}
}

// IsTerminal checks if a status is a terminal state (Analyzed, Cached, Failed).
func (s FrameStatus) IsTerminal() bool {
	switch s {
	case FrameStatusAnalyzed, FrameStatusCached, FrameStatusFailed:
		return true
	default:
		return false
	}
}

// NormalizeFrameStatus converts a string to a FrameStatus, defaulting to pending if unknown.
func NormalizeFrameStatus(s string) FrameStatus {
	switch FrameStatus(strings.ToLower(s)) {
	case FrameStatusAnalyzed:
		return FrameStatusAnalyzed
	case FrameStatusCached:
		return FrameStatusCached
	case FrameStatusFailed:
		return FrameStatusFailed
	default:
		return FrameStatusPending
	}
}
