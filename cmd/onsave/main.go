// Package main is the entry point for onsave.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/onsave/cmd/onsave/commands"
	"go.trai.ch/onsave/internal/app"
	"go.trai.ch/onsave/internal/core/domain"
	_ "go.trai.ch/onsave/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	if l, ok := components.Logger.(interface{ SetOutput(io.Writer) }); ok {
		l.SetOutput(stderr)
	}
	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		// The failing command's exit code has already been logged.
		if errors.Is(err, domain.ErrCommandFailed) && !hasOtherCause(err) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// hasOtherCause reports whether a joined error carries anything besides
// failed commands.
func hasOtherCause(err error) bool {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return false
	}
	for _, e := range joined.Unwrap() {
		if !errors.Is(e, domain.ErrCommandFailed) {
			return true
		}
	}
	return false
}
