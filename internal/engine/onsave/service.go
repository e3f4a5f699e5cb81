// Package onsave ties document lifecycle events to configured commands.
// A Service learns about documents from a host, resolves their configuration
// once at open time and runs the command whenever a save passes the gate.
package onsave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DocumentListener = (*Service)(nil)

// Service manages one watch per open document.
type Service struct {
	resolver   ports.ConfigResolver
	executor   ports.Executor
	dispatcher ports.Dispatcher
	host       ports.DocumentHost
	logger     ports.Logger
	tracer     ports.Tracer

	mu      sync.Mutex
	watches map[domain.DocumentID]*documentWatch
}

// watchState tracks how far a document's configuration got.
type watchState uint8

const (
	// stateConfiguring queues saves until the configuration is resolved.
	stateConfiguring watchState = iota
	// stateReady passes saves through the gate.
	stateReady
	// stateInert drops saves: nothing runs for this document.
	stateInert
)

// documentWatch is the per-document state. Fields other than doc are
// guarded by Service.mu.
type documentWatch struct {
	doc    domain.Document
	tmpl   *domain.CommandTemplate
	gate   domain.SaveGate
	state  watchState
	queue  []domain.SaveEvent
	closed bool
}

// NewService creates a new Service with the given dependencies.
func NewService(
	resolver ports.ConfigResolver,
	executor ports.Executor,
	dispatcher ports.Dispatcher,
	host ports.DocumentHost,
	logger ports.Logger,
	tracer ports.Tracer,
) *Service {
	return &Service{
		resolver:   resolver,
		executor:   executor,
		dispatcher: dispatcher,
		host:       host,
		logger:     logger,
		tracer:     tracer,
		watches:    make(map[domain.DocumentID]*documentWatch),
	}
}

// Open starts watching a document. The save subscription is taken on the
// caller's goroutine; configuration is resolved on the dispatcher so the
// host's notification goroutine is never blocked on disk. Saves reported in
// between are queued and handled in order once the configuration is known.
func (s *Service) Open(doc domain.Document) {
	w := &documentWatch{doc: doc}

	s.mu.Lock()
	s.watches[doc.ID] = w
	s.mu.Unlock()

	err := s.host.Subscribe(doc.ID, func(event domain.SaveEvent) {
		s.onSave(w, event)
	})
	if err != nil {
		s.settle(w)
		if errors.Is(err, domain.ErrDocumentNotOpen) {
			s.logger.Debug(fmt.Sprintf("%s closed before it was watched", doc.Path))
			return
		}
		s.logger.Error(err)
		return
	}

	s.dispatcher.Dispatch("configure "+doc.Path, func(ctx context.Context) {
		s.configure(ctx, w)
	})
}

// Close stops watching a document. Saves reported before Close that are
// still waiting for the configuration run once it is resolved; a run
// already dispatched is not interrupted.
func (s *Service) Close(id domain.DocumentID) {
	s.mu.Lock()
	w, ok := s.watches[id]
	if ok {
		w.closed = true
		delete(s.watches, id)
	}
	s.mu.Unlock()

	if ok {
		s.host.Unsubscribe(id)
	}
}

// Watching reports whether a document is armed for saves.
func (s *Service) Watching(id domain.DocumentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.watches[id]
	return ok && w.state == stateReady
}

// settle marks w inert and drops its queued saves.
func (s *Service) settle(w *documentWatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.state = stateInert
	w.queue = nil
}

func (s *Service) configure(ctx context.Context, w *documentWatch) {
	ctx, span := s.tracer.Start(ctx, "configure", ports.WithAttributes(map[string]any{
		"file": w.doc.Path,
	}))
	defer span.End()

	plan, err := s.Plan(w.doc.Root, w.doc.Path)
	if err != nil {
		s.settle(w)
		span.RecordError(err)
		s.logger.Error(err)
		return
	}

	switch {
	case !plan.Configured():
		s.settle(w)
		s.logger.Debug(fmt.Sprintf("no %s applies to %s", domain.ConfigFileName, w.doc.Path))
		return
	case plan.Template == nil:
		s.settle(w)
		s.logger.Info(fmt.Sprintf("%s: %s", w.doc.Path, domain.ErrNotACommandConfiguration.Error()))
		return
	case plan.Ignored():
		s.settle(w)
		s.logger.Debug(fmt.Sprintf("%s is ignored", w.doc.Path))
		return
	}

	tmpl := plan.Template

	s.mu.Lock()
	w.tmpl = tmpl
	w.gate.Arm(tmpl.AlwaysRun())
	w.state = stateReady
	queued := w.queue
	w.queue = nil
	decisions := make([]domain.Decision, len(queued))
	for i, event := range queued {
		decisions[i] = w.gate.Decide(event.Version)
	}
	closed := w.closed
	s.mu.Unlock()

	span.SetAttribute("command", tmpl.Command())
	if !closed {
		s.logger.Debug(fmt.Sprintf("watching %s", w.doc.Path))
	}

	// Queued saves run here, one after another, in the order they arrived.
	for i, event := range queued {
		if decisions[i] == domain.DecisionSkip {
			s.logger.Info("content unchanged, skipping " + event.Path)
			continue
		}
		s.runLogged(ctx, tmpl, domain.Expand(tmpl, w.doc.Root, event.Path), event.Path)
	}
}

func (s *Service) onSave(w *documentWatch, event domain.SaveEvent) {
	if !event.Triggers() {
		s.logger.Debug(fmt.Sprintf("ignoring %s event for %q", event.Action, event.Path))
		return
	}

	s.mu.Lock()
	switch {
	case w.closed, w.state == stateInert:
		s.mu.Unlock()
		return
	case w.state == stateConfiguring:
		w.queue = append(w.queue, event)
		s.mu.Unlock()
		s.logger.Debug(fmt.Sprintf("queued save of %s until its configuration is resolved", event.Path))
		return
	}
	decision := w.gate.Decide(event.Version)
	tmpl := w.tmpl
	s.mu.Unlock()

	if decision == domain.DecisionSkip {
		s.logger.Info("content unchanged, skipping " + event.Path)
		return
	}

	line := domain.Expand(tmpl, w.doc.Root, event.Path)
	s.dispatcher.Dispatch("run "+event.Path, func(ctx context.Context) {
		s.runLogged(ctx, tmpl, line, event.Path)
	})
}

func (s *Service) runLogged(ctx context.Context, tmpl *domain.CommandTemplate, line domain.CommandLine, file string) {
	if _, err := s.run(ctx, tmpl, line, file); err != nil {
		s.logger.Error(err)
	}
}

// Plan describes what a save of file would do, without running anything.
type Plan struct {
	File string
	Root string
	// Properties is nil when no configuration file applies to File.
	Properties domain.Properties
	// Template is nil when Properties carries no command.
	Template *domain.CommandTemplate
	// Line is nil when there is no template or it is ignored.
	Line *domain.CommandLine
}

// Configured reports whether any configuration applies to the file.
func (p *Plan) Configured() bool { return p.Properties != nil }

// Ignored reports whether the file's command is a reserved no-op.
func (p *Plan) Ignored() bool { return p.Template != nil && p.Template.ShouldIgnore() }

// Plan resolves the configuration for file and expands its command against
// root.
func (s *Service) Plan(root, file string) (*Plan, error) {
	if !domain.IsAbsolutePath(file) {
		return nil, zerr.With(zerr.Wrap(domain.ErrFileNotAbsolute, "cannot plan"), "file", file)
	}

	props, found, err := s.resolver.Resolve(file)
	if err != nil {
		return nil, err
	}

	plan := &Plan{File: file, Root: root}
	if !found {
		return plan, nil
	}
	plan.Properties = props

	tmpl, err := domain.TryParse(props)
	if err != nil {
		return plan, nil //nolint:nilerr // a section without a command is a valid plan
	}
	plan.Template = tmpl

	if !tmpl.ShouldIgnore() {
		line := domain.Expand(tmpl, root, file)
		plan.Line = &line
	}
	return plan, nil
}

// RunOnce runs the command configured for file as if it had just been
// saved, bypassing the save gate.
func (s *Service) RunOnce(ctx context.Context, root, file string) (domain.ProcessResult, error) {
	plan, err := s.Plan(root, file)
	switch {
	case err != nil:
		return domain.ProcessResult{}, err
	case !plan.Configured():
		return domain.ProcessResult{}, zerr.With(zerr.Wrap(domain.ErrNoConfiguration, "nothing to run"), "file", file)
	case plan.Template == nil:
		return domain.ProcessResult{}, zerr.With(
			zerr.Wrap(domain.ErrNotACommandConfiguration, "nothing to run"), "file", file)
	case plan.Line == nil:
		s.logger.Info(file + " is ignored")
		return domain.ProcessResult{}, nil
	}

	return s.run(ctx, plan.Template, *plan.Line, file)
}

func (s *Service) run(
	ctx context.Context,
	tmpl *domain.CommandTemplate,
	line domain.CommandLine,
	file string,
) (domain.ProcessResult, error) {
	ctx, span := s.tracer.Start(ctx, "run", ports.WithAttributes(map[string]any{
		"file":    file,
		"command": line.Executable,
	}))
	defer span.End()

	res, err := s.executor.Run(ctx, line, tmpl.Timeout())
	s.emit(res.Stdout)
	s.emit(res.Stderr)

	if err != nil {
		span.RecordError(err)
		return res, err
	}

	span.SetAttribute("exit_code", res.ExitCode)
	span.SetAttribute("timed_out", res.TimedOut)

	switch {
	case res.TimedOut:
		s.logger.Warn(fmt.Sprintf("%s still running after %s, no longer waiting for it", line.Executable, tmpl.Timeout()))
	case res.ExitCode != 0:
		s.logger.Warn(fmt.Sprintf("%s exited with code %d", line.Executable, res.ExitCode))
	}
	return res, nil
}

// emit forwards captured output. Whitespace-only output is dropped.
func (s *Service) emit(out string) {
	if strings.TrimSpace(out) == "" {
		return
	}
	s.logger.Info(strings.TrimRight(out, "\r\n"))
}
