package domain

import (
	"slices"
	"unsafe"
)

// LabelImage is a segmented 2D frame: every pixel carries the label of the region it belongs to.
type LabelImage struct {
	Width  int
	Height int
	// Pixels is row-major, len(Pixels) == Width*Height.
	Pixels []Label
	// Checksum fingerprints Width, Height and Pixels.
	Checksum uint64
}

// At returns the label at (x, y). Coordinates outside the image read as background.
func (img *LabelImage) At(x, y int) Label {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return 0
	}
	return img.Pixels[y*img.Width+x]
}

// RegionStats are the per-region measurements derived from one frame.
type RegionStats struct {
	Label    Label
	Area     int
	Centroid Point
	Bounds   Rect
}

// FrameKey identifies a frame analysis in the cache.
// The checksum keeps a cached analysis from outliving a change to the frame's pixels.
type FrameKey struct {
	Index    Timestamp
	Checksum uint64
}

// FrameAnalysis holds the derived data for one frame.
type FrameAnalysis struct {
	Key   FrameKey
	Image *LabelImage
	// Regions is sorted by label and never contains background.
	Regions []RegionStats
}

// Region returns the statistics for label l.
func (a *FrameAnalysis) Region(l Label) (RegionStats, bool) {
	i, found := slices.BinarySearchFunc(a.Regions, l, func(r RegionStats, l Label) int {
		return int(r.Label - l)
	})
	if !found {
		return RegionStats{}, false
	}
	return a.Regions[i], true
}

// ByteSize approximates the memory held by the analysis, including its label image.
func (a *FrameAnalysis) ByteSize() int64 {
	if a == nil {
		return 0
	}
	size := int64(unsafe.Sizeof(*a)) + int64(len(a.Regions))*int64(unsafe.Sizeof(RegionStats{}))
	if a.Image != nil {
		size += int64(unsafe.Sizeof(*a.Image)) + int64(len(a.Image.Pixels))*int64(unsafe.Sizeof(Label(0)))
	}
	return size
}

// AnalyzeFrame computes region statistics for every non-background label in img.
func AnalyzeFrame(index Timestamp, img *LabelImage) *FrameAnalysis {
	type accumulator struct {
		area   int
		sumX   int
		sumY   int
		bounds Rect
	}

	acc := make(map[Label]*accumulator)
	for y := range img.Height {
		for x := range img.Width {
			l := img.Pixels[y*img.Width+x]
			if l == 0 {
				continue
			}
			a, ok := acc[l]
			if !ok {
				a = &accumulator{bounds: Rect{MinX: x, MinY: y, MaxX: x, MaxY: y}}
				acc[l] = a
			}
			a.area++
			a.sumX += x
			a.sumY += y
			a.bounds.MinX = min(a.bounds.MinX, x)
			a.bounds.MinY = min(a.bounds.MinY, y)
			a.bounds.MaxX = max(a.bounds.MaxX, x)
			a.bounds.MaxY = max(a.bounds.MaxY, y)
		}
	}

	regions := make([]RegionStats, 0, len(acc))
	for l, a := range acc {
		regions = append(regions, RegionStats{
			Label: l,
			Area:  a.area,
			Centroid: Point{
				X: float64(a.sumX) / float64(a.area),
				Y: float64(a.sumY) / float64(a.area),
			},
			Bounds: a.bounds,
		})
	}
	slices.SortFunc(regions, func(a, b RegionStats) int { return int(a.Label - b.Label) })

	return &FrameAnalysis{
		Key:     FrameKey{Index: index, Checksum: img.Checksum},
		Image:   img,
		Regions: regions,
	}
}

// Overlap counts, for every pair of non-background labels, the pixels where prev carries the
// first label and next carries the second. Both images must have the same dimensions.
func Overlap(prev, next *LabelImage) map[[2]Label]int {
	counts := make(map[[2]Label]int)
	for i, a := range prev.Pixels {
		b := next.Pixels[i]
		if a == 0 || b == 0 {
			continue
		}
		counts[[2]Label{a, b}]++
	}
	return counts
}
