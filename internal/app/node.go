package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/onsave/internal/adapters/dispatch" //nolint:depguard // Wired in app layer
	"go.trai.ch/onsave/internal/adapters/docs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/onsave/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/onsave/internal/adapters/stdio"    //nolint:depguard // Wired in app layer
	"go.trai.ch/onsave/internal/adapters/watcher"  //nolint:depguard // Wired in app layer
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/onsave/internal/engine/onsave"
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
			onsave.NodeID,
			docs.NodeID,
			dispatch.NodeID,
			watcher.NodeID,
			stdio.NodeID,
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
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	svc, err := graft.Dep[*onsave.Service](ctx)
	if err != nil {
		return nil, err
	}
	registry, err := graft.Dep[*docs.Registry](ctx)
	if err != nil {
		return nil, err
	}
	pool, err := graft.Dep[*dispatch.Pool](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[*watcher.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	host, err := graft.Dep[*stdio.Host](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(svc, registry, pool, w, host, log), nil
}
