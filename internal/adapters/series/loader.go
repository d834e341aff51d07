// Package series loads labeled frame series from YAML files.
package series

import (
	"fmt"
	"os"

	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/regiontrack/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.SeriesLoader = (*Loader)(nil)

// Loader implements ports.SeriesLoader for YAML series files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Logger: log}
}

// Load reads the series file at path.
func (l *Loader) Load(path string) (*domain.Series, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	if l.Logger != nil {
		l.Logger.Debug(fmt.Sprintf("loaded series %q: %d frames", s.Name, len(s.Frames)))
	}
	return s, nil
}

// Load reads a series file from the given path.
func Load(path string) (*domain.Series, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		err = zerr.With(zerr.Wrap(domain.ErrSeriesReadFailed, "failed to load series"), "reason", err.Error())
		return nil, zerr.With(err, "path", path)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return s, nil
}

// Parse decodes and validates a series document.
func Parse(data []byte) (*domain.Series, error) {
	var file Seriesfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSeriesParseFailed, "failed to decode series"), "reason", err.Error())
	}

	if file.Version != SchemaVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrSeriesInvalid, "unsupported version"), "version", file.Version)
	}
	if len(file.Frames) == 0 {
		return nil, zerr.Wrap(domain.ErrSeriesInvalid, "series has no frames")
	}

	s := &domain.Series{
		Name:     file.Name,
		Settings: file.Settings,
		Frames:   make([]*domain.LabelImage, 0, len(file.Frames)),
	}

	for i, dto := range file.Frames {
		img, err := toImage(dto)
		if err != nil {
			return nil, zerr.With(err, "frame", i)
		}
		if i > 0 && (img.Width != s.Frames[0].Width || img.Height != s.Frames[0].Height) {
			err := zerr.Wrap(domain.ErrSeriesInvalid, "frame size differs from first frame")
			err = zerr.With(err, "frame", i)
			return nil, zerr.With(err, "size", fmt.Sprintf("%dx%d", img.Width, img.Height))
		}
		s.Frames = append(s.Frames, img)
	}

	return s, nil
}

func toImage(dto FrameDTO) (*domain.LabelImage, error) {
	if len(dto.Rows) == 0 || len(dto.Rows[0]) == 0 {
		return nil, zerr.Wrap(domain.ErrSeriesInvalid, "frame is empty")
	}

	width := len(dto.Rows[0])
	img := &domain.LabelImage{
		Width:  width,
		Height: len(dto.Rows),
		Pixels: make([]domain.Label, 0, width*len(dto.Rows)),
	}

	for y, row := range dto.Rows {
		if len(row) != width {
			err := zerr.With(zerr.Wrap(domain.ErrSeriesInvalid, "frame is not rectangular"), "row", y)
			return nil, zerr.With(err, "width", len(row))
		}
		for x, v := range row {
			if v < 0 {
				err := zerr.With(zerr.Wrap(domain.ErrSeriesInvalid, "negative label"), "row", y)
				return nil, zerr.With(err, "column", x)
			}
			img.Pixels = append(img.Pixels, domain.Label(v))
		}
	}

	img.Checksum = Checksum(img)
	return img, nil
}
