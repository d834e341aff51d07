// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/regiontrack/internal/adapters/logger"
	_ "go.trai.ch/regiontrack/internal/adapters/series"
	_ "go.trai.ch/regiontrack/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/regiontrack/internal/app"
	_ "go.trai.ch/regiontrack/internal/engine/tracker"
)
