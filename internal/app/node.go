package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/regiontrack/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/regiontrack/internal/adapters/series"             //nolint:depguard // Wired in app layer
	"go.trai.ch/regiontrack/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/regiontrack/internal/core/ports"
	"go.trai.ch/regiontrack/internal/engine/tracker"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			series.NodeID,
			tracker.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.SeriesLoader](ctx)
	if err != nil {
		return nil, err
	}

	tr, err := graft.Dep[*tracker.Tracker](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, tr, telemetry, log), nil
}
