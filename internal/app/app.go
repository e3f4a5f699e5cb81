// Package app implements the application layer for onsave.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/onsave/internal/adapters/docs"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/onsave/internal/engine/onsave"
	"go.trai.ch/zerr"
)

// DefaultDrainTimeout bounds how long shutdown waits for running commands.
const DefaultDrainTimeout = 10 * time.Second

// Watcher reports file system saves under a root until ctx is done.
type Watcher interface {
	Run(ctx context.Context, root string) error
}

// Host reads editor messages from r until it is exhausted or ctx is done.
type Host interface {
	Serve(ctx context.Context, r io.Reader, root string) error
}

// Drainer waits for background work to finish.
type Drainer interface {
	Close(ctx context.Context) error
}

// App represents the main application logic.
type App struct {
	service  *onsave.Service
	registry *docs.Registry
	pool     Drainer
	watcher  Watcher
	host     Host
	logger   ports.Logger

	stdin        io.Reader
	stdout       io.Writer
	drainTimeout time.Duration
}

// New creates a new App instance.
func New(
	service *onsave.Service,
	registry *docs.Registry,
	pool Drainer,
	watcher Watcher,
	host Host,
	log ports.Logger,
) *App {
	return &App{
		service:      service,
		registry:     registry,
		pool:         pool,
		watcher:      watcher,
		host:         host,
		logger:       log,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		drainTimeout: DefaultDrainTimeout,
	}
}

// WithIO replaces the streams Serve reads from and Check writes to.
func (a *App) WithIO(stdin io.Reader, stdout io.Writer) *App {
	a.stdin = stdin
	a.stdout = stdout
	return a
}

// WithDrainTimeout sets how long shutdown waits for running commands.
func (a *App) WithDrainTimeout(d time.Duration) *App {
	a.drainTimeout = d
	return a
}

// SetVerbose enables debug logging when the logger supports it.
func (a *App) SetVerbose(enable bool) {
	if v, ok := a.logger.(interface{ SetVerbose(bool) }); ok {
		v.SetVerbose(enable)
	}
}

// Watch runs commands for files saved under root until ctx is done.
func (a *App) Watch(ctx context.Context, root string) error {
	root, err := projectRoot(root)
	if err != nil {
		return err
	}

	runErr := a.watcher.Run(ctx, root)
	return errors.Join(runErr, a.shutdown())
}

// Serve runs commands for documents an editor reports on stdin.
func (a *App) Serve(ctx context.Context, root string) error {
	root, err := projectRoot(root)
	if err != nil {
		return err
	}

	a.logger.Debug("reading host messages from stdin")
	serveErr := a.host.Serve(ctx, a.stdin, root)
	return errors.Join(serveErr, a.shutdown())
}

// Run runs the command configured for each file once, as if it were saved.
func (a *App) Run(ctx context.Context, root string, files []string) error {
	root, err := projectRoot(root)
	if err != nil {
		return err
	}

	var errs error
	for _, f := range files {
		file, err := filepath.Abs(f)
		if err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to resolve file path"), "file", f))
			continue
		}

		res, err := a.service.RunOnce(ctx, root, file)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if res.TimedOut || res.ExitCode != 0 {
			failed := zerr.With(zerr.Wrap(domain.ErrCommandFailed, "run failed"), "file", file)
			failed = zerr.With(failed, "exit_code", res.ExitCode)
			errs = errors.Join(errs, zerr.With(failed, "timed_out", res.TimedOut))
		}
	}
	return errs
}

// Check prints which command a save of each file would run.
func (a *App) Check(root string, files []string, format string) error {
	root, err := projectRoot(root)
	if err != nil {
		return err
	}

	reports := make([]Report, 0, len(files))
	for _, f := range files {
		file, err := filepath.Abs(f)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve file path"), "file", f)
		}

		plan, err := a.service.Plan(root, file)
		if err != nil {
			return err
		}
		reports = append(reports, NewReport(plan))
	}

	switch format {
	case OutputText, "":
		return RenderText(a.stdout, reports)
	case OutputYAML:
		return RenderYAML(a.stdout, reports)
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownOutputFormat, "cannot print plan"), "output", format)
	}
}

// shutdown closes every document and waits for dispatched work.
func (a *App) shutdown() error {
	a.registry.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), a.drainTimeout)
	defer cancel()

	if err := a.pool.Close(ctx); err != nil {
		return zerr.With(err, "timeout", a.drainTimeout.String())
	}
	return nil
}

// projectRoot resolves root, defaulting to the working directory.
func projectRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(err, "failed to get working directory")
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve project root"), "root", root)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidRoot, fmt.Sprintf("cannot use %s", root)), "root", abs)
	}
	return abs, nil
}
