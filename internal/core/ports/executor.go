package ports

import (
	"context"
	"time"

	"go.trai.ch/onsave/internal/core/domain"
)

// Executor launches an expanded command line and captures its output.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run starts the command and waits up to timeout for it to exit.
	//
	// A zero timeout waits without bound. When the timeout elapses the
	// process keeps running and the result is marked TimedOut.
	// Launch failures are returned as errors, a non-zero exit code is not.
	Run(ctx context.Context, line domain.CommandLine, timeout time.Duration) (domain.ProcessResult, error)
}
