// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/regiontrack/internal/adapters/telemetry"
	"go.trai.ch/regiontrack/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu     sync.RWMutex
	closed bool
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex. Vertices with the same name share a digest,
// so recording a name twice updates the same vertex.
// Vertices recorded after Close are discarded.
func (r *Recorder) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return telemetry.NewNoOp().Record(ctx, name, opts...)
	}

	cfg := ports.NewVertexConfig(opts...)

	rec := r.rec
	if cfg.Group != "" {
		rec = rec.WithGroup(cfg.Group)
	}

	v := rec.Vertex(digest.FromString(cfg.Group+"/"+name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session. Only the first call reaches the writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
