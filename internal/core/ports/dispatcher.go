package ports

import "context"

// Dispatcher runs work off the caller's goroutine.
//
//go:generate mockgen -source=dispatcher.go -destination=mocks/mock_dispatcher.go -package=mocks
type Dispatcher interface {
	// Dispatch schedules work and returns immediately.
	// The name is used for logging when work panics.
	Dispatch(name string, work func(ctx context.Context))
}
