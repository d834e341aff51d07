package series

import (
	"context"

	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/regiontrack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FrameSource = (*Source)(nil)

// Source serves the frames of a loaded series from memory.
type Source struct {
	series *domain.Series
}

// NewSource creates a FrameSource over s.
func NewSource(s *domain.Series) *Source {
	return &Source{series: s}
}

// FrameCount returns the number of frames in the series.
func (s *Source) FrameCount() int {
	return len(s.series.Frames)
}

// Frame returns the frame at index.
func (s *Source) Frame(ctx context.Context, index domain.Timestamp) (*domain.LabelImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || int(index) >= len(s.series.Frames) {
		err := zerr.With(zerr.Wrap(domain.ErrFrameNotFound, "failed to read frame"), "frame", int(index))
		return nil, zerr.With(err, "frame_count", len(s.series.Frames))
	}
	return s.series.Frames[index], nil
}
