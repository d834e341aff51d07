package domain

import "go.trai.ch/zerr"

var (
	// ErrNodeNotFound is returned when no node carries the requested (timestamp, label) identity.
	ErrNodeNotFound = zerr.New("node not found")

	// ErrEdgeNotFound is returned when no edge connects the requested pair of nodes.
	ErrEdgeNotFound = zerr.New("edge not found")

	// ErrNodeOutOfRange is returned when a node index does not address a stored node.
	ErrNodeOutOfRange = zerr.New("node index out of range")

	// ErrDuplicateNode is returned when a node with the same (timestamp, label) identity already exists.
	ErrDuplicateNode = zerr.New("node identity already exists")

	// ErrSelfLoop is returned when an edge would connect a node to itself.
	ErrSelfLoop = zerr.New("edge would connect a node to itself")

	// ErrGraphInconsistent is returned by Graph.Verify when an internal invariant does not hold.
	ErrGraphInconsistent = zerr.New("graph is inconsistent")

	// ErrInvalidCleanupFactor is returned when a cache cleanup factor is outside (0, 1].
	ErrInvalidCleanupFactor = zerr.New("cleanup factor must be in (0, 1]")

	// ErrInvalidCacheSize is returned when a cache budget is negative.
	ErrInvalidCacheSize = zerr.New("cache size must not be negative")

	// ErrSeriesReadFailed is returned when the series file cannot be read.
	ErrSeriesReadFailed = zerr.New("failed to read series file")

	// ErrSeriesParseFailed is returned when the series file cannot be parsed.
	ErrSeriesParseFailed = zerr.New("failed to parse series file")

	// ErrSeriesInvalid is returned when the series file is well-formed YAML but semantically invalid.
	ErrSeriesInvalid = zerr.New("invalid series")

	// ErrFrameNotFound is returned when a frame index is outside the loaded series.
	ErrFrameNotFound = zerr.New("frame not found")

	// ErrFrameAnalysisFailed is returned when region statistics for a frame cannot be computed.
	ErrFrameAnalysisFailed = zerr.New("frame analysis failed")

	// ErrTrackingFailed is returned when the tracking graph cannot be built for a series.
	ErrTrackingFailed = zerr.New("tracking failed")

	// ErrNoSeriesSpecified is returned when the track command is invoked without a series path.
	ErrNoSeriesSpecified = zerr.New("no series file specified")

	// ErrUnknownFormat is returned when a report format is not supported.
	ErrUnknownFormat = zerr.New("unknown report format")

	// ErrInvalidLogLevel is returned when a log level name is not recognized.
	ErrInvalidLogLevel = zerr.New("invalid log level")

	// ErrInvalidSetting is returned when a command line track setting is out of range.
	ErrInvalidSetting = zerr.New("invalid track setting")
)
