package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/onsave/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports finished spans to a
// Logger at debug level.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{
		logger: logger,
	}
}

// OnStart does nothing; spans are reported once they end.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.logger.Debug(describe(s))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func describe(s sdktrace.ReadOnlySpan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s finished in %s", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Millisecond))

	for _, kv := range s.Attributes() {
		fmt.Fprintf(&sb, " %s=%s", kv.Key, kv.Value.Emit())
	}

	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "failed"
		}
		fmt.Fprintf(&sb, " (%s)", desc)
	}
	return sb.String()
}
