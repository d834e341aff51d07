package domain

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits        uint64 `yaml:"hits"`
	Misses      uint64 `yaml:"misses"`
	Evictions   uint64 `yaml:"evictions"`
	Entries     int    `yaml:"entries"`
	Size        int64  `yaml:"size"`
	MaximumSize int64  `yaml:"maximumSize"`
}

// TrackSummary describes the tracking graph built for a series.
type TrackSummary struct {
	Series string     `yaml:"series"`
	Frames int        `yaml:"frames"`
	Nodes  int        `yaml:"nodes"`
	Edges  int        `yaml:"edges"`
	Births int        `yaml:"births"`
	Deaths int        `yaml:"deaths"`
	Splits int        `yaml:"splits"`
	Merges int        `yaml:"merges"`
	Pruned int        `yaml:"pruned"`
	Cache  CacheStats `yaml:"cache"`

	Timeline []FrameReport `yaml:"timeline"`
}

// FrameReport describes the outcome of tracking a single frame.
type FrameReport struct {
	Index   Timestamp   `yaml:"index"`
	Regions int         `yaml:"regions"`
	Kept    int         `yaml:"kept"`
	Status  FrameStatus `yaml:"status"`
}

// Summarize counts lifecycle events in g for a series of frameCount frames.
//
// A birth is a node after the first frame without parents, a death is a node before the
// last frame without children, a split is a node with more than one child and a merge is
// a node with more than one parent.
func Summarize(g *Graph, frameCount int) TrackSummary {
	summary := TrackSummary{
		Frames: frameCount,
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
	}

	outbound := g.OutboundEdges()
	inbound := g.InboundEdges()
	for id, node := range g.Nodes() {
		t := int(node.FrameIndex)
		if t > 0 && len(inbound[id]) == 0 {
			summary.Births++
		}
		if t < frameCount-1 && len(outbound[id]) == 0 {
			summary.Deaths++
		}
		if len(outbound[id]) > 1 {
			summary.Splits++
		}
		if len(inbound[id]) > 1 {
			summary.Merges++
		}
	}
	return summary
}
