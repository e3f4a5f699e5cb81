package onsave

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/onsave/internal/adapters/config"
	"go.trai.ch/onsave/internal/adapters/dispatch"
	"go.trai.ch/onsave/internal/adapters/docs"
	"go.trai.ch/onsave/internal/adapters/logger"
	"go.trai.ch/onsave/internal/adapters/shell"
	"go.trai.ch/onsave/internal/adapters/telemetry"
	"go.trai.ch/onsave/internal/core/ports"
)

// NodeID is the unique identifier for the onsave Service Graft node.
const NodeID graft.ID = "engine.onsave"

func init() {
	graft.Register(graft.Node[*Service]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			dispatch.NodeID,
			docs.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Service, error) {
	resolver, err := graft.Dep[ports.ConfigResolver](ctx)
	if err != nil {
		return nil, err
	}
	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}
	pool, err := graft.Dep[*dispatch.Pool](ctx)
	if err != nil {
		return nil, err
	}
	registry, err := graft.Dep[*docs.Registry](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	svc := NewService(resolver, executor, pool, registry, log, tracer)
	registry.SetListener(svc)
	return svc, nil
}
