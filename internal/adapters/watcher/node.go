package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/onsave/internal/adapters/docs"
	"go.trai.ch/onsave/internal/adapters/fs"
	"go.trai.ch/onsave/internal/adapters/logger"
	"go.trai.ch/onsave/internal/adapters/settings"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
)

// NodeID is the unique identifier for the file watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[*Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{docs.NodeID, fs.HasherNodeID, logger.NodeID, settings.NodeID},
		Run: func(ctx context.Context) (*Watcher, error) {
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
			s, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(registry, hasher, log, s), nil
		},
	})
}
