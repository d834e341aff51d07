// Package tracker builds temporal tracking graphs from labeled frame series.
package tracker

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.trai.ch/regiontrack/internal/adapters/cache"
	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/regiontrack/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of tracking one series.
type Result struct {
	Graph   *domain.Graph
	Summary domain.TrackSummary
}

// Tracker turns frame series into tracking graphs.
//
// Frame analyses are memoized in a size-bounded cache keyed by frame index and pixel checksum.
// The graph itself is built on a single goroutine.
type Tracker struct {
	logger    ports.Logger
	telemetry ports.Telemetry
}

// New creates a new Tracker.
func New(logger ports.Logger, telemetry ports.Telemetry) *Tracker {
	return &Tracker{
		logger:    logger,
		telemetry: telemetry,
	}
}

// Track analyzes every frame of src and links overlapping regions of consecutive frames.
func (t *Tracker) Track(
	ctx context.Context,
	name string,
	src ports.FrameSource,
	settings domain.TrackSettings,
) (*Result, error) {
	settings = settings.WithDefaults()

	analyses, err := cache.NewSynchronized[domain.FrameKey, *domain.FrameAnalysis](
		(*domain.FrameAnalysis).ByteSize,
		cache.WithMaximumSize(settings.CacheBudget),
		cache.WithCleanupFactor(settings.CleanupFactor),
	)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create analysis cache"), "series", name)
	}

	state := &runState{
		t:          t,
		name:       name,
		src:        src,
		settings:   settings,
		analyses:   analyses,
		frameCount: src.FrameCount(),
		status:     make(map[domain.Timestamp]domain.FrameStatus),
	}

	res, err := state.run(ctx)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to track series"), "series", name)
	}
	return res, nil
}

type runState struct {
	t          *Tracker
	name       string
	src        ports.FrameSource
	settings   domain.TrackSettings
	analyses   *cache.Synchronized[domain.FrameKey, *domain.FrameAnalysis]
	frameCount int

	mu     sync.RWMutex
	status map[domain.Timestamp]domain.FrameStatus
}

func (s *runState) run(ctx context.Context) (*Result, error) {
	if s.frameCount == 0 {
		return nil, zerr.Wrap(domain.ErrTrackingFailed, "series has no frames")
	}
	for i := range s.frameCount {
		s.updateStatus(domain.Timestamp(i), domain.FrameStatusPending)
	}

	// Without a cache budget nothing computed ahead of time would survive until the build pass.
	if s.settings.CacheBudget > 0 {
		if err := s.prefetch(ctx); err != nil {
			return nil, err
		}
	}

	g := domain.NewGraph()
	regions := make([]int, s.frameCount)
	var prev *domain.FrameAnalysis
	for i := range s.frameCount {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ts := domain.Timestamp(i)

		a, computed, err := s.analyze(ctx, ts)
		if err != nil {
			s.updateStatus(ts, domain.FrameStatusFailed)
			return nil, err
		}
		if computed {
			s.updateStatus(ts, domain.FrameStatusAnalyzed)
		} else {
			s.updateStatus(ts, domain.FrameStatusCached)
		}

		if err := s.addRegions(g, a); err != nil {
			return nil, err
		}
		regions[i] = len(a.Regions)

		if prev != nil {
			if err := s.link(g, prev, a); err != nil {
				return nil, err
			}
		}
		prev = a
	}

	pruned, err := s.prune(g)
	if err != nil {
		return nil, err
	}

	summary := domain.Summarize(g, s.frameCount)
	summary.Series = s.name
	summary.Pruned = pruned
	summary.Cache = s.analyses.Stats()
	summary.Timeline = s.timeline(g, regions)

	return &Result{Graph: g, Summary: summary}, nil
}

// prefetch warms the analysis cache with bounded parallelism and records one vertex per frame.
func (s *runState) prefetch(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.Parallelism)

	for i := range s.frameCount {
		ts := domain.Timestamp(i)
		g.Go(func() error {
			_, vertex := s.t.telemetry.Record(gctx, fmt.Sprintf("frame %d", ts), ports.WithGroup(s.name))

			a, computed, err := s.analyze(gctx, ts)
			if err != nil {
				s.updateStatus(ts, domain.FrameStatusFailed)
				vertex.Complete(err)
				return err
			}

			if !computed {
				vertex.Cached()
			}
			_, _ = fmt.Fprintf(vertex.Stdout(), "%d regions\n", len(a.Regions))
			vertex.Complete(nil)
			return nil
		})
	}

	return g.Wait()
}

// analyze returns the analysis of frame ts and whether it had to be computed.
func (s *runState) analyze(ctx context.Context, ts domain.Timestamp) (*domain.FrameAnalysis, bool, error) {
	img, err := s.src.Frame(ctx, ts)
	if err != nil {
		return nil, false, err
	}

	computed := false
	key := domain.FrameKey{Index: ts, Checksum: img.Checksum}
	a, err := s.analyses.FindOrCreate(key, func(k domain.FrameKey) (*domain.FrameAnalysis, error) {
		computed = true
		if len(img.Pixels) != img.Width*img.Height {
			err := zerr.With(zerr.Wrap(domain.ErrFrameAnalysisFailed, "pixel count does not match frame size"), "frame", int(k.Index))
			return nil, zerr.With(err, "pixels", len(img.Pixels))
		}
		return domain.AnalyzeFrame(k.Index, img), nil
	})
	if err != nil {
		return nil, false, err
	}
	return a, computed, nil
}

func (s *runState) addRegions(g *domain.Graph, a *domain.FrameAnalysis) error {
	ts := a.Key.Index
	s.t.logger.Debug(fmt.Sprintf("frame %d: %d regions", ts, len(a.Regions)))
	if len(a.Regions) == 0 {
		s.t.logger.Warn(fmt.Sprintf("frame %d has no regions", ts))
	}

	for _, r := range a.Regions {
		_, err := g.AddNode(domain.Node{
			FrameIndex: ts,
			Label:      r.Label,
			Area:       r.Area,
			Centroid:   r.Centroid,
			Bounds:     r.Bounds,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// link adds an edge for every pair of regions in consecutive frames that share enough pixels.
func (s *runState) link(g *domain.Graph, prev, next *domain.FrameAnalysis) error {
	if prev.Image.Width != next.Image.Width || prev.Image.Height != next.Image.Height {
		err := zerr.With(zerr.Wrap(domain.ErrFrameAnalysisFailed, "frame size differs from previous frame"), "frame", int(next.Key.Index))
		return zerr.With(err, "size", fmt.Sprintf("%dx%d", next.Image.Width, next.Image.Height))
	}

	overlaps := domain.Overlap(prev.Image, next.Image)
	pairs := make([][2]domain.Label, 0, len(overlaps))
	for pair, count := range overlaps {
		if count >= s.settings.MinOverlap {
			pairs = append(pairs, pair)
		}
	}
	slices.SortFunc(pairs, func(a, b [2]domain.Label) int {
		if a[0] != b[0] {
			return int(a[0] - b[0])
		}
		return int(a[1] - b[1])
	})

	for _, pair := range pairs {
		from, _, err := g.FindNode(prev.Key.Index, pair[0])
		if err != nil {
			return err
		}
		to, _, err := g.FindNode(next.Key.Index, pair[1])
		if err != nil {
			return err
		}
		if err := g.AddEdge(domain.Edge{From: from, To: to}); err != nil {
			return err
		}
	}
	return nil
}

// prune drops regions smaller than the minimum area and compacts the graph.
func (s *runState) prune(g *domain.Graph) (int, error) {
	for id, n := range g.Nodes() {
		if n.Area >= s.settings.MinArea {
			continue
		}
		if _, err := g.RemoveNode(id, true); err != nil {
			return 0, err
		}
	}

	pruned := g.FinalizeLazyRemoval()
	s.t.logger.Info(fmt.Sprintf("compacted %d regions smaller than %d pixels", pruned, s.settings.MinArea))

	if err := g.Verify(); err != nil {
		return 0, zerr.Wrap(err, "graph failed verification after compaction")
	}
	return pruned, nil
}

func (s *runState) timeline(g *domain.Graph, regions []int) []domain.FrameReport {
	kept := make([]int, s.frameCount)
	for _, n := range g.Nodes() {
		kept[n.FrameIndex]++
	}

	reports := make([]domain.FrameReport, s.frameCount)
	for i := range reports {
		ts := domain.Timestamp(i)
		reports[i] = domain.FrameReport{
			Index:   ts,
			Regions: regions[i],
			Kept:    kept[i],
			Status:  s.getStatus(ts),
		}
	}
	return reports
}

func (s *runState) updateStatus(ts domain.Timestamp, status domain.FrameStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[ts] = status
}

func (s *runState) getStatus(ts domain.Timestamp) domain.FrameStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[ts]
}
