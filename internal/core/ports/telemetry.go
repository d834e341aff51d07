package ports

import (
	"context"
	"io"

	"go.trai.ch/regiontrack/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records units of pipeline work, such as the analysis of one frame.
type Telemetry interface {
	// Record starts a new vertex and returns a context carrying it.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents a single recorded unit of work.
type Vertex interface {
	// Stdout returns a writer for the vertex's regular output.
	Stdout() io.Writer
	// Stderr returns a writer for the vertex's error output.
	Stderr() io.Writer
	// Log records a message at the given level on the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, failed if err is non-nil.
	Complete(err error)
	// Cached marks the vertex as served from a cache.
	Cached()
}

// VertexConfig holds configuration for a starting vertex.
type VertexConfig struct {
	// Group names the group the vertex is displayed under. Empty means the root group.
	Group string
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

// WithGroup places the vertex in the named group.
func WithGroup(name string) VertexOption {
	return func(c *VertexConfig) {
		c.Group = name
	}
}

// NewVertexConfig applies opts to an empty VertexConfig.
func NewVertexConfig(opts ...VertexOption) VertexConfig {
	var c VertexConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
