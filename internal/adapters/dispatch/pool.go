// Package dispatch runs save work off the host's notification goroutine.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

var (
	_ ports.Dispatcher = (*Pool)(nil)
	_ ports.Dispatcher = (*Inline)(nil)
)

// Pool runs dispatched work on goroutines, at most size at a time.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	logger ports.Logger
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a Pool. Work receives a context that is cancelled when
// Close gives up waiting.
func NewPool(logger ports.Logger, size int) *Pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		sem:    semaphore.NewWeighted(int64(size)),
		logger: logger,
	}
}

// Dispatch schedules work and returns immediately. Work dispatched after
// Close is dropped.
func (p *Pool) Dispatch(name string, work func(ctx context.Context)) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Debug(fmt.Sprintf("dropping %s: dispatcher closed", name))
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)

		safeRun(p.ctx, p.logger, name, work)
	}()
}

// Close stops accepting work and waits for queued and running work. If ctx
// ends first, the work context is cancelled and Close returns.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	defer p.cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return zerr.Wrap(ctx.Err(), "background work did not finish")
	}
}

// Inline runs work on the caller's goroutine. It suits one-shot commands
// and tests.
type Inline struct {
	Logger ports.Logger
}

// NewInline creates an Inline dispatcher.
func NewInline(logger ports.Logger) *Inline {
	return &Inline{Logger: logger}
}

// Dispatch runs work before returning.
func (d *Inline) Dispatch(name string, work func(ctx context.Context)) {
	safeRun(context.Background(), d.Logger, name, work)
}

// Close returns immediately; Inline never holds work.
func (d *Inline) Close(_ context.Context) error {
	return nil
}

// safeRun keeps a panic in one unit of work from taking the process down.
func safeRun(ctx context.Context, logger ports.Logger, name string, work func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(zerr.With(zerr.New(fmt.Sprintf("panic: %v", r)), "work", name))
		}
	}()
	work(ctx)
}
