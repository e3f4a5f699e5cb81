package logger_test

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/onsave/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Error_Golden(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "error_chain",
			err:  zerr.With(zerr.Wrap(zerr.New("command not found"), "failed to start command"), "command", "nope"),
		},
		{
			name: "error_standard",
			err:  errors.New("plain failure"),
		},
		{
			name: "error_multiline",
			err:  zerr.Wrap(errors.New("exit status 2\nstderr tail"), "first line\nsecond line"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
	}{
		{name: "levels_default", verbose: false},
		{name: "levels_verbose", verbose: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.SetVerbose(tt.verbose)

			lg.Debug("probing config")
			lg.Info("info line")
			lg.Warn("warn line")

			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestLogger_SetJSON(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.SetJSON(true)
		lg.Error(errors.New("test error message"))

		out := buf.String()
		assert.Contains(t, out, `"error"`)
		assert.Contains(t, out, `"level":"ERROR"`)
		assert.NotContains(t, out, "✗")
	})

	t.Run("disabled", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.SetJSON(false)
		lg.Error(errors.New("test error message"))

		g := goldie.New(t)
		g.Assert(t, "setjson_disabled", buf.Bytes())
	})
}

func TestLogger_SetJSON_WithErrorChain(t *testing.T) {
	err := zerr.With(zerr.Wrap(errors.New("exit status 1"), "command failed"), "exit_code", 1)

	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(err)

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "command failed")
	assert.Contains(t, out, "exit_code")
	assert.Contains(t, out, "exit status 1")
}

func TestLogger_SetJSON_KeepsVerbosity(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetVerbose(true)
	lg.SetJSON(true)
	lg.Debug("still visible")

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), "still visible")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("error in pretty mode"))
	pretty := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Error(errors.New("error in json mode"))
	jsonOut := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.Error(errors.New("error back in pretty mode"))
	back := buf.String()

	assert.Contains(t, pretty, "✗")
	assert.NotContains(t, pretty, `"error"`)
	assert.Contains(t, jsonOut, `"error"`)
	assert.NotContains(t, jsonOut, "✗")
	assert.Contains(t, back, "✗")
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	require.NotPanics(t, func() {
		logger.New().SetOutput(nil)
	})
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	for range 4 {
		wg.Go(func() { lg.Info("concurrent info") })
		wg.Go(func() { lg.Warn("concurrent warn") })
		wg.Go(func() { lg.Error(errors.New("concurrent error")) })
		wg.Go(func() { lg.SetJSON(true) })
		wg.Go(func() { lg.SetVerbose(true) })
	}
	wg.Wait()
}

func TestLogger_ConcurrentWritesKeepLinesWhole(t *testing.T) {
	lg, buf := newTestLogger(t)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for i := range writers {
		wg.Go(func() {
			for range perWriter {
				if i%2 == 0 {
					lg.Info("from writer " + strconv.Itoa(i))
				} else {
					lg.Warn("from writer " + strconv.Itoa(i))
				}
			}
		})
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, writers*perWriter)
	for _, line := range lines {
		assert.Regexp(t, `from writer [0-9]$`, line)
	}
}
