package ports

import (
	"context"

	"go.trai.ch/regiontrack/internal/core/domain"
)

// SeriesLoader defines the interface for loading a labeled frame series.
//
//go:generate mockgen -source=series_loader.go -destination=mocks/mock_series_loader.go -package=mocks
type SeriesLoader interface {
	// Load reads the series stored at path.
	Load(path string) (*domain.Series, error)
}

// FrameSource provides random access to the frames of a series.
type FrameSource interface {
	// FrameCount returns the number of frames in the series.
	FrameCount() int
	// Frame returns the label image at index, or an error wrapping domain.ErrFrameNotFound.
	Frame(ctx context.Context, index domain.Timestamp) (*domain.LabelImage, error)
}
