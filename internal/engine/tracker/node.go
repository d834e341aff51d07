package tracker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/regiontrack/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/regiontrack/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/regiontrack/internal/core/ports"
)

// NodeID is the unique identifier for the tracker Graft node.
const NodeID graft.ID = "engine.tracker"

func init() {
	graft.Register(graft.Node[*Tracker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Tracker, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(log, telemetry), nil
		},
	})
}
