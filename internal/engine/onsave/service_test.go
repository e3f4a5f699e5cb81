package onsave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/onsave/internal/adapters/dispatch"
	"go.trai.ch/onsave/internal/adapters/telemetry"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/onsave/internal/core/ports/mocks"
	"go.trai.ch/onsave/internal/engine/onsave"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const (
	root = "/repo"
	file = "/repo/pkg/main.go"
)

var doc = domain.Document{ID: "doc-1", Path: file, Version: "v0", Root: root}

type fixture struct {
	resolver *mocks.MockConfigResolver
	executor *mocks.MockExecutor
	host     *mocks.MockDocumentHost
	logger   *mocks.MockLogger
	svc      *onsave.Service

	handler ports.SaveHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		resolver: mocks.NewMockConfigResolver(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		host:     mocks.NewMockDocumentHost(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.svc = onsave.NewService(
		f.resolver,
		f.executor,
		dispatch.NewInline(f.logger),
		f.host,
		f.logger,
		telemetry.NewNoOpTracer(),
	)
	return f
}

// expectSubscribe captures the save handler the service registers.
func (f *fixture) expectSubscribe() {
	f.host.EXPECT().Subscribe(doc.ID, gomock.Any()).DoAndReturn(
		func(_ domain.DocumentID, h ports.SaveHandler) error {
			f.handler = h
			return nil
		}).Times(1)
}

func (f *fixture) openWith(props domain.Properties) {
	f.expectSubscribe()
	f.resolver.EXPECT().Resolve(file).Return(props, true, nil).Times(1)
	f.svc.Open(doc)
}

func saved(v domain.Version) domain.SaveEvent {
	return domain.SaveEvent{Action: domain.ActionContentSaved, Path: file, Version: v}
}

func TestService_RunsCommandOnSave(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	f.openWith(domain.Properties{
		"command":         "gofmt",
		"arguments":       "-w {file_in_solution}",
		"timeout_seconds": "5",
	})
	require.NotNil(t, f.handler)
	assert.True(t, f.svc.Watching(doc.ID))

	want := domain.CommandLine{
		Executable:       "gofmt",
		Arguments:        "-w pkg/main.go",
		WorkingDirectory: "/repo/pkg",
	}
	f.executor.EXPECT().Run(gomock.Any(), want, 5*time.Second).
		Return(domain.ProcessResult{Stdout: "ran gofmt\n"}, nil).Times(1)
	f.logger.EXPECT().Info("ran gofmt").Times(1)

	f.handler(saved("v1"))
}

func TestService_SkipsUnchangedContent(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.openWith(domain.Properties{"command": "gofmt"})

	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), domain.DefaultTimeout).
		Return(domain.ProcessResult{}, nil).Times(2)

	f.logger.EXPECT().Info("content unchanged, skipping " + file).Times(1)

	f.handler(saved("v1"))
	f.handler(saved("v1"))
	f.handler(saved("v2"))
}

func TestService_AlwaysRun(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.openWith(domain.Properties{"command": "gofmt", "always_run": "true"})

	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ProcessResult{}, nil).Times(3)

	f.handler(saved("v1"))
	f.handler(saved("v1"))
	f.handler(saved("v1"))
}

func TestService_IgnoresNonTriggeringEvents(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.openWith(domain.Properties{"command": "gofmt"})

	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	f.handler(domain.SaveEvent{Action: domain.ActionContentLoaded, Path: file, Version: "v1"})
	f.handler(domain.SaveEvent{Action: domain.ActionRenamed, Path: file, Version: "v1"})
	f.handler(domain.SaveEvent{Action: domain.ActionContentSaved, Path: "main.go", Version: "v1"})
	f.handler(domain.SaveEvent{Action: domain.ActionContentSaved, Version: "v1"})
}

func TestService_ReloadDoesNotConsumeGate(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.openWith(domain.Properties{"command": "gofmt"})

	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ProcessResult{}, nil).Times(1)

	f.handler(domain.SaveEvent{Action: domain.ActionContentLoaded, Path: file, Version: "v1"})
	f.handler(saved("v1"))
}

func TestService_UnconfiguredDocumentsStayInert(t *testing.T) {
	tests := []struct {
		name   string
		props  domain.Properties
		found  bool
		expect func(l *mocks.MockLoggerMockRecorder)
	}{
		{
			name: "no configuration",
			expect: func(l *mocks.MockLoggerMockRecorder) {
				l.Debug("no .onsaveconfig applies to " + file).Times(1)
			},
		},
		{
			name:  "not a command",
			props: domain.Properties{"indent_style": "tab"},
			found: true,
			expect: func(l *mocks.MockLoggerMockRecorder) {
				l.Info(file + ": .onsaveconfig found, but invalid for this file").Times(1)
			},
		},
		{
			name:  "ignore",
			props: domain.Properties{"command": "ignore"},
			found: true,
			expect: func(l *mocks.MockLoggerMockRecorder) {
				l.Debug(file + " is ignored").Times(1)
			},
		},
		{
			name:  "unset",
			props: domain.Properties{"command": "UNSET"},
			found: true,
			expect: func(l *mocks.MockLoggerMockRecorder) {
				l.Debug(file + " is ignored").Times(1)
			},
		},
		{
			name:  "empty command",
			props: domain.Properties{"command": ""},
			found: true,
			expect: func(l *mocks.MockLoggerMockRecorder) {
				l.Debug(file + " is ignored").Times(1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectSubscribe()
			f.resolver.EXPECT().Resolve(file).Return(tt.props, tt.found, nil).Times(1)
			tt.expect(f.logger.EXPECT())
			f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			f.svc.Open(doc)
			assert.False(t, f.svc.Watching(doc.ID))

			require.NotNil(t, f.handler)
			f.handler(saved("v1"))
		})
	}
}

func TestService_ResolveError(t *testing.T) {
	f := newFixture(t)
	f.expectSubscribe()
	resolveErr := zerr.Wrap(domain.ErrFileNotAbsolute, "cannot resolve")
	f.resolver.EXPECT().Resolve(file).Return(nil, false, resolveErr).Times(1)
	f.logger.EXPECT().Error(resolveErr).Times(1)

	f.svc.Open(doc)
	assert.False(t, f.svc.Watching(doc.ID))
}

func TestService_SubscribeAfterClose(t *testing.T) {
	f := newFixture(t)
	notOpen := zerr.Wrap(domain.ErrDocumentNotOpen, "cannot subscribe")
	f.host.EXPECT().Subscribe(doc.ID, gomock.Any()).Return(notOpen).Times(1)
	f.logger.EXPECT().Debug(file + " closed before it was watched").Times(1)
	f.resolver.EXPECT().Resolve(gomock.Any()).Times(0)

	f.svc.Open(doc)
	assert.False(t, f.svc.Watching(doc.ID))
}

func TestService_SubscribeError(t *testing.T) {
	f := newFixture(t)
	subErr := zerr.Wrap(domain.ErrDocumentAlreadySubscribed, "cannot subscribe")
	f.host.EXPECT().Subscribe(doc.ID, gomock.Any()).Return(subErr).Times(1)
	f.logger.EXPECT().Error(subErr).Times(1)
	f.resolver.EXPECT().Resolve(gomock.Any()).Times(0)

	f.svc.Open(doc)
}

func TestService_CloseStopsRuns(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.openWith(domain.Properties{"command": "gofmt"})

	f.host.EXPECT().Unsubscribe(doc.ID).Times(1)
	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	f.svc.Close(doc.ID)
	assert.False(t, f.svc.Watching(doc.ID))

	f.handler(saved("v1"))

	f.svc.Close(doc.ID)
}

// deferredFixture holds configure work until the test releases it.
type deferredFixture struct {
	*fixture
	configures []func(context.Context)
	handlers   []ports.SaveHandler
}

func newDeferredFixture(t *testing.T) *deferredFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)

	f := &deferredFixture{fixture: &fixture{
		resolver: mocks.NewMockConfigResolver(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		host:     mocks.NewMockDocumentHost(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}}
	f.svc = onsave.NewService(f.resolver, f.executor, dispatcher, f.host, f.logger, telemetry.NewNoOpTracer())

	dispatcher.EXPECT().Dispatch("configure "+file, gomock.Any()).
		Do(func(_ string, work func(context.Context)) {
			f.configures = append(f.configures, work)
		}).AnyTimes()
	dispatcher.EXPECT().Dispatch("run "+file, gomock.Any()).
		Do(func(_ string, work func(context.Context)) { work(context.Background()) }).AnyTimes()
	f.host.EXPECT().Subscribe(doc.ID, gomock.Any()).
		DoAndReturn(func(_ domain.DocumentID, h ports.SaveHandler) error {
			f.handlers = append(f.handlers, h)
			return nil
		}).AnyTimes()
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return f
}

func TestService_QueuesSavesUntilConfigured(t *testing.T) {
	f := newDeferredFixture(t)

	f.svc.Open(doc)
	require.Len(t, f.handlers, 1)
	require.Len(t, f.configures, 1)

	f.handlers[0](saved("v1"))
	f.handlers[0](saved("v1"))
	f.handlers[0](saved("v2"))
	assert.False(t, f.svc.Watching(doc.ID))

	f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"command": "gofmt"}, true, nil).Times(1)
	gomock.InOrder(
		f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ProcessResult{Stdout: "first"}, nil),
		f.logger.EXPECT().Info("first"),
		f.logger.EXPECT().Info("content unchanged, skipping "+file),
		f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ProcessResult{Stdout: "second"}, nil),
		f.logger.EXPECT().Info("second"),
	)

	f.configures[0](context.Background())
	assert.True(t, f.svc.Watching(doc.ID))
}

func TestService_QueuedSavesRunAfterClose(t *testing.T) {
	f := newDeferredFixture(t)

	f.svc.Open(doc)
	f.handlers[0](saved("v1"))
	f.handlers[0](saved("v1"))

	f.host.EXPECT().Unsubscribe(doc.ID).Times(1)
	f.svc.Close(doc.ID)

	f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"command": "gofmt"}, true, nil).Times(1)
	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ProcessResult{}, nil).Times(1)
	f.logger.EXPECT().Info("content unchanged, skipping " + file).Times(1)

	f.configures[0](context.Background())
	assert.False(t, f.svc.Watching(doc.ID))
}

func TestService_CloseBeforeConfigureWithoutSaves(t *testing.T) {
	f := newDeferredFixture(t)

	f.svc.Open(doc)
	f.host.EXPECT().Unsubscribe(doc.ID).Times(1)
	f.svc.Close(doc.ID)

	f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"command": "gofmt"}, true, nil).Times(1)
	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	f.configures[0](context.Background())
}

func TestService_ReopenWhileConfiguring(t *testing.T) {
	f := newDeferredFixture(t)

	f.svc.Open(doc)
	f.host.EXPECT().Unsubscribe(doc.ID).Times(1)
	f.svc.Close(doc.ID)
	f.svc.Open(doc)
	require.Len(t, f.handlers, 2)
	require.Len(t, f.configures, 2)

	f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"command": "gofmt"}, true, nil).Times(2)

	// The stale watch finishes without touching the host.
	f.configures[0](context.Background())
	f.configures[1](context.Background())
	assert.True(t, f.svc.Watching(doc.ID))

	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ProcessResult{}, nil).Times(1)
	f.handlers[0](saved("v1"))
	f.handlers[1](saved("v1"))
}

func TestService_ExecutionFailure(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.openWith(domain.Properties{"command": "missing-tool"})

	banner := "2026-01-02T03:04:05: running missing-tool"
	runErr := zerr.With(zerr.Wrap(domain.ErrCommandNotFound, "failed to start"), "command", "missing-tool")
	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ProcessResult{ExitCode: -1, Stdout: banner + "\n"}, runErr).Times(1)
	gomock.InOrder(
		f.logger.EXPECT().Info(banner),
		f.logger.EXPECT().Error(runErr),
	)

	f.handler(saved("v1"))
}

func TestService_WarnsOnTimeoutAndExitCode(t *testing.T) {
	tests := []struct {
		name   string
		result domain.ProcessResult
		warn   string
	}{
		{
			name:   "timed out",
			result: domain.ProcessResult{ExitCode: -1, TimedOut: true},
			warn:   "slow still running after 30s, no longer waiting for it",
		},
		{
			name:   "non-zero exit",
			result: domain.ProcessResult{ExitCode: 3},
			warn:   "slow exited with code 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
			f.openWith(domain.Properties{"command": "slow"})

			f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.result, nil).Times(1)
			f.logger.EXPECT().Warn(tt.warn).Times(1)

			f.handler(saved("v1"))
		})
	}
}

func TestService_OutputForwarding(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.openWith(domain.Properties{"command": "lint"})

	f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ProcessResult{Stdout: "  \n\t\n", Stderr: "warning: unused\r\n"}, nil).Times(1)
	f.logger.EXPECT().Info("warning: unused").Times(1)

	f.handler(saved("v1"))
}

func TestService_Plan(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Plan(root, "pkg/main.go")
	require.True(t, errors.Is(err, domain.ErrFileNotAbsolute))

	f.resolver.EXPECT().Resolve(file).Return(domain.Properties{
		"command":   "gofmt",
		"arguments": "-l {filename}",
	}, true, nil).Times(1)

	plan, err := f.svc.Plan(root, file)
	require.NoError(t, err)
	assert.True(t, plan.Configured())
	assert.False(t, plan.Ignored())
	require.NotNil(t, plan.Template)
	require.NotNil(t, plan.Line)
	assert.Equal(t, "gofmt -l main.go", plan.Line.String())
	assert.Equal(t, "/repo/pkg", plan.Line.WorkingDirectory)
}

func TestService_PlanWithoutCommand(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"indent_style": "tab"}, true, nil).Times(1)

	plan, err := f.svc.Plan(root, file)
	require.NoError(t, err)
	assert.True(t, plan.Configured())
	assert.Nil(t, plan.Template)
	assert.Nil(t, plan.Line)
	assert.False(t, plan.Ignored())
}

func TestService_RunOnce(t *testing.T) {
	t.Run("runs without consulting the gate", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"command": "gofmt"}, true, nil).Times(2)
		f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.ProcessResult{ExitCode: 0}, nil).Times(2)

		for range 2 {
			res, err := f.svc.RunOnce(context.Background(), root, file)
			require.NoError(t, err)
			assert.Equal(t, 0, res.ExitCode)
		}
	})

	t.Run("no configuration", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().Resolve(file).Return(nil, false, nil).Times(1)

		_, err := f.svc.RunOnce(context.Background(), root, file)
		assert.True(t, errors.Is(err, domain.ErrNoConfiguration))
	})

	t.Run("not a command", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"x": "y"}, true, nil).Times(1)

		_, err := f.svc.RunOnce(context.Background(), root, file)
		assert.True(t, errors.Is(err, domain.ErrNotACommandConfiguration))
	})

	t.Run("ignored", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"command": "ignore"}, true, nil).Times(1)
		f.logger.EXPECT().Info(file + " is ignored").Times(1)
		f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.RunOnce(context.Background(), root, file)
		assert.NoError(t, err)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().Resolve(file).Return(domain.Properties{"command": "false"}, true, nil).Times(1)
		f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.ProcessResult{ExitCode: 1}, nil).Times(1)
		f.logger.EXPECT().Warn("false exited with code 1").Times(1)

		res, err := f.svc.RunOnce(context.Background(), root, file)
		require.NoError(t, err)
		assert.Equal(t, 1, res.ExitCode)
	})
}

func TestService_RunRecordsSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockConfigResolver(ctrl)
	executor := mocks.NewMockExecutor(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	svc := onsave.NewService(resolver, executor, dispatch.NewInline(logger), mocks.NewMockDocumentHost(ctrl), logger, tracer)

	resolver.EXPECT().Resolve(file).Return(domain.Properties{"command": "vet"}, true, nil).Times(2)
	tracer.EXPECT().Start(gomock.Any(), "run", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, opts ...ports.SpanOption) (context.Context, ports.Span) {
			var cfg ports.SpanConfig
			for _, opt := range opts {
				opt(&cfg)
			}
			assert.Equal(t, map[string]any{"file": file, "command": "vet"}, cfg.Attributes)
			return ctx, span
		}).Times(2)

	t.Run("exit code", func(t *testing.T) {
		executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.ProcessResult{ExitCode: 3}, nil).Times(1)
		logger.EXPECT().Warn("vet exited with code 3").Times(1)
		span.EXPECT().SetAttribute("exit_code", 3).Times(1)
		span.EXPECT().SetAttribute("timed_out", false).Times(1)
		span.EXPECT().End().Times(1)

		_, err := svc.RunOnce(context.Background(), root, file)
		require.NoError(t, err)
	})

	t.Run("error", func(t *testing.T) {
		runErr := zerr.Wrap(domain.ErrCommandNotFound, "vet")
		executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.ProcessResult{}, runErr).Times(1)
		span.EXPECT().RecordError(runErr).Times(1)
		span.EXPECT().End().Times(1)

		_, err := svc.RunOnce(context.Background(), root, file)
		assert.ErrorIs(t, err, domain.ErrCommandNotFound)
	})
}
