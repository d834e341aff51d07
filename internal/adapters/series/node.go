package series

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/regiontrack/internal/adapters/logger"
	"go.trai.ch/regiontrack/internal/core/ports"
)

// NodeID is the unique identifier for the series loader Graft node.
const NodeID graft.ID = "adapter.series_loader"

func init() {
	graft.Register(graft.Node[ports.SeriesLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SeriesLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
