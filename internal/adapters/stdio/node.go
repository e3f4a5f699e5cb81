package stdio

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/onsave/internal/adapters/docs"
	"go.trai.ch/onsave/internal/adapters/fs"
	"go.trai.ch/onsave/internal/adapters/logger"
	"go.trai.ch/onsave/internal/core/ports"
)

// NodeID is the unique identifier for the stdio host Graft node.
const NodeID graft.ID = "adapter.stdio"

func init() {
	graft.Register(graft.Node[*Host]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{docs.NodeID, fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Host, error) {
			registry, err := graft.Dep[*docs.Registry](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewHost(registry, hasher, log), nil
		},
	})
}
