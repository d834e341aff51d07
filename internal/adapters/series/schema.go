package series

import "go.trai.ch/regiontrack/internal/core/domain"

// SchemaVersion is the only series file version understood by the loader.
const SchemaVersion = "1"

// Seriesfile represents the structure of a series YAML file.
type Seriesfile struct {
	Version  string               `yaml:"version"`
	Name     string               `yaml:"name"`
	Settings domain.TrackSettings `yaml:"settings"`
	Frames   []FrameDTO           `yaml:"frames"`
}

// FrameDTO represents one labeled frame as rows of labels.
type FrameDTO struct {
	Rows [][]int `yaml:"rows"`
}
