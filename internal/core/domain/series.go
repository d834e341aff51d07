package domain

import "runtime"

// Default tracking settings.
const (
	DefaultMinArea       = 1
	DefaultMinOverlap    = 1
	DefaultCacheBudget   = 64 << 20
	DefaultCleanupFactor = 0.9
)

// Series is an ordered sequence of labeled frames of equal size.
type Series struct {
	Name     string
	Frames   []*LabelImage
	Settings TrackSettings
}

// TrackSettings configures how a series is turned into a tracking graph.
type TrackSettings struct {
	// MinArea is the smallest region area kept in the final graph.
	MinArea int `yaml:"minArea"`
	// MinOverlap is the number of shared pixels needed to link two regions in consecutive frames.
	MinOverlap int `yaml:"minOverlap"`
	// CacheBudget is the maximum byte cost of cached frame analyses. Zero disables caching.
	CacheBudget int64 `yaml:"cacheBudget"`
	// CleanupFactor is the fraction of CacheBudget that eviction shrinks the cache to.
	CleanupFactor float64 `yaml:"cleanupFactor"`
	// Parallelism bounds how many frames are analyzed concurrently.
	Parallelism int `yaml:"parallelism"`
}

// WithDefaults returns a copy of s with unset fields filled in.
// A zero CacheBudget stays zero only when explicitly disabled through a negative value.
func (s TrackSettings) WithDefaults() TrackSettings {
	if s.MinArea <= 0 {
		s.MinArea = DefaultMinArea
	}
	if s.MinOverlap <= 0 {
		s.MinOverlap = DefaultMinOverlap
	}
	switch {
	case s.CacheBudget == 0:
		s.CacheBudget = DefaultCacheBudget
	case s.CacheBudget < 0:
		s.CacheBudget = 0
	}
	if s.CleanupFactor == 0 {
		s.CleanupFactor = DefaultCleanupFactor
	}
	if s.Parallelism <= 0 {
		s.Parallelism = runtime.NumCPU()
	}
	return s
}

// Merge returns s with every non-zero field of override applied on top.
func (s TrackSettings) Merge(override TrackSettings) TrackSettings {
	if override.MinArea != 0 {
		s.MinArea = override.MinArea
	}
	if override.MinOverlap != 0 {
		s.MinOverlap = override.MinOverlap
	}
	if override.CacheBudget != 0 {
		s.CacheBudget = override.CacheBudget
	}
	if override.CleanupFactor != 0 {
		s.CleanupFactor = override.CleanupFactor
	}
	if override.Parallelism != 0 {
		s.Parallelism = override.Parallelism
	}
	return s
}
