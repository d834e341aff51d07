package series_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/regiontrack/internal/adapters/series"
	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/regiontrack/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const validSeries = `
version: "1"
name: droplets
settings:
  minArea: 2
  minOverlap: 1
  cacheBudget: 65536
  cleanupFactor: 0.8
  parallelism: 4
frames:
  - rows:
      - [0, 1, 1, 0]
      - [0, 1, 1, 0]
  - rows:
      - [0, 1, 1, 0]
      - [0, 0, 2, 2]
`

func writeSeries(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func metadata(t *testing.T, err error) map[string]any {
	t.Helper()
	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr), "expected *zerr.Error, got %T", err)
	return zErr.Metadata()
}

func TestLoad_Success(t *testing.T) {
	s, err := series.Load(writeSeries(t, validSeries))
	require.NoError(t, err)

	assert.Equal(t, "droplets", s.Name)
	assert.Equal(t, domain.TrackSettings{
		MinArea:       2,
		MinOverlap:    1,
		CacheBudget:   65536,
		CleanupFactor: 0.8,
		Parallelism:   4,
	}, s.Settings)

	require.Len(t, s.Frames, 2)
	first := s.Frames[0]
	assert.Equal(t, 4, first.Width)
	assert.Equal(t, 2, first.Height)
	assert.Equal(t, []domain.Label{0, 1, 1, 0, 0, 1, 1, 0}, first.Pixels)
	assert.Equal(t, domain.Label(2), s.Frames[1].At(3, 1))

	assert.Equal(t, series.Checksum(first), first.Checksum)
	assert.NotEqual(t, first.Checksum, s.Frames[1].Checksum)
}

func TestLoader_LogsLoadedSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(`loaded series "droplets": 2 frames`)

	s, err := series.NewLoader(log).Load(writeSeries(t, validSeries))
	require.NoError(t, err)
	assert.Len(t, s.Frames, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := series.Load(path)
	require.ErrorIs(t, err, domain.ErrSeriesReadFailed)
	assert.Equal(t, path, metadata(t, err)["path"])
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sentinel error
		meta     map[string]any
	}{
		{
			name:     "malformed yaml",
			content:  "version: [",
			sentinel: domain.ErrSeriesParseFailed,
		},
		{
			name:     "unsupported version",
			content:  "version: \"2\"\nframes:\n  - rows: [[1]]\n",
			sentinel: domain.ErrSeriesInvalid,
			meta:     map[string]any{"version": "2"},
		},
		{
			name:     "no frames",
			content:  "version: \"1\"\n",
			sentinel: domain.ErrSeriesInvalid,
		},
		{
			name:     "empty frame",
			content:  "version: \"1\"\nframes:\n  - rows: []\n",
			sentinel: domain.ErrSeriesInvalid,
			meta:     map[string]any{"frame": 0},
		},
		{
			name:     "ragged rows",
			content:  "version: \"1\"\nframes:\n  - rows: [[1, 1], [1]]\n",
			sentinel: domain.ErrSeriesInvalid,
			meta:     map[string]any{"frame": 0, "row": 1, "width": 1},
		},
		{
			name:     "negative label",
			content:  "version: \"1\"\nframes:\n  - rows: [[1, 1], [1, -3]]\n",
			sentinel: domain.ErrSeriesInvalid,
			meta:     map[string]any{"frame": 0, "row": 1, "column": 1},
		},
		{
			name:     "mismatched frame size",
			content:  "version: \"1\"\nframes:\n  - rows: [[1, 1]]\n  - rows: [[1], [1]]\n",
			sentinel: domain.ErrSeriesInvalid,
			meta:     map[string]any{"frame": 1, "size": "1x2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := series.Load(writeSeries(t, tt.content))
			require.ErrorIs(t, err, tt.sentinel)

			meta := metadata(t, err)
			assert.NotEmpty(t, meta["path"])
			for k, v := range tt.meta {
				assert.Equal(t, v, meta[k], "metadata %q", k)
			}
		})
	}
}

func TestChecksum_DependsOnShape(t *testing.T) {
	wide := &domain.LabelImage{Width: 2, Height: 1, Pixels: []domain.Label{1, 2}}
	tall := &domain.LabelImage{Width: 1, Height: 2, Pixels: []domain.Label{1, 2}}
	assert.NotEqual(t, series.Checksum(wide), series.Checksum(tall))

	again := &domain.LabelImage{Width: 2, Height: 1, Pixels: []domain.Label{1, 2}}
	assert.Equal(t, series.Checksum(wide), series.Checksum(again))
}

func TestSource_Frame(t *testing.T) {
	s, err := series.Load(writeSeries(t, validSeries))
	require.NoError(t, err)
	src := series.NewSource(s)

	assert.Equal(t, 2, src.FrameCount())

	img, err := src.Frame(context.Background(), 1)
	require.NoError(t, err)
	assert.Same(t, s.Frames[1], img)

	_, err = src.Frame(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrFrameNotFound)
	assert.Equal(t, 2, metadata(t, err)["frame"])

	_, err = src.Frame(context.Background(), -1)
	require.ErrorIs(t, err, domain.ErrFrameNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Frame(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
}
