package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/onsave/internal/adapters/logger"
	"go.trai.ch/onsave/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// InstrumentationName names the tracer onsave creates its spans on.
const InstrumentationName = "onsave"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tp := sdktrace.NewTracerProvider(
				sdktrace.WithSpanProcessor(NewBridge(log)),
			)
			return NewOTelTracerFrom(tp, InstrumentationName), nil
		},
	})
}
