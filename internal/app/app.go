// Package app implements the application layer for regiontrack.
package app

import (
	"context"

	"go.trai.ch/regiontrack/internal/adapters/series" //nolint:depguard // Frame source is built per series
	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/regiontrack/internal/core/ports"
	"go.trai.ch/regiontrack/internal/engine/tracker"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader    ports.SeriesLoader
	tracker   *tracker.Tracker
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new App instance.
func New(loader ports.SeriesLoader, tr *tracker.Tracker, telemetry ports.Telemetry, logger ports.Logger) *App {
	return &App{
		loader:    loader,
		tracker:   tr,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Track loads the series at path and builds its tracking graph.
// Non-zero fields of overrides take precedence over the series file's settings.
func (a *App) Track(ctx context.Context, path string, overrides domain.TrackSettings) (*tracker.Result, error) {
	if path == "" {
		return nil, domain.ErrNoSeriesSpecified
	}

	// 1. Load the series
	s, err := a.loader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load series")
	}

	// 2. Resolve settings
	settings := s.Settings.Merge(overrides)

	// 3. Build the graph
	res, err := a.tracker.Track(ctx, s.Name, series.NewSource(s), settings)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "tracking failed"), "path", path)
	}

	a.logger.Info(formatDone(res.Summary))
	return res, nil
}

// ConfigureLogging applies the level and format to the logger when it supports them.
func (a *App) ConfigureLogging(level domain.LogLevel, json bool) {
	type configurable interface {
		SetLevel(domain.LogLevel)
		SetJSON(bool)
	}
	if l, ok := a.logger.(configurable); ok {
		l.SetLevel(level)
		l.SetJSON(json)
	}
}

// Close flushes telemetry.
func (a *App) Close() error {
	if err := a.telemetry.Close(); err != nil {
		return zerr.Wrap(err, "failed to close telemetry")
	}
	return nil
}
