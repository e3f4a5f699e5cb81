package dispatch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/onsave/internal/adapters/logger"
	"go.trai.ch/onsave/internal/adapters/settings"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
)

// NodeID is the unique identifier for the dispatcher Graft node.
const NodeID graft.ID = "adapter.dispatch"

func init() {
	graft.Register(graft.Node[*Pool]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Pool, error) {
			s, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewPool(log, s.MaxConcurrency), nil
		},
	})
}
