package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bale/internal/core/ports"
)

// TracerNodeID is the unique identifier for the tracer Graft node.
const TracerNodeID graft.ID = "adapter.telemetry.tracer"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Tracer, error) {
			return NewNoOpTracer(), nil
		},
	})
}
