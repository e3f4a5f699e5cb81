package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/onsave/internal/adapters/logger"
	"go.trai.ch/onsave/internal/adapters/settings"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
)

// NodeID is the unique identifier for the config resolver Graft node.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[ports.ConfigResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigResolver, error) {
			s, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			r, err := NewResolver(NewOSFS(), log, s.ConfigCacheSize)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	})
}
