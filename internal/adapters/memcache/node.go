package memcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bale/internal/core/ports"
)

const NodeID graft.ID = "adapter.process_cache"

func init() {
	graft.Register(graft.Node[ports.ProcessCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ProcessCache, error) {
			return New(), nil
		},
	})
}
