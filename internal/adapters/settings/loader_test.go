package settings_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/onsave/internal/adapters/settings"
	"go.trai.ch/onsave/internal/core/domain"
)

func newLoader(env map[string]string, files map[string]string) *settings.Loader {
	return &settings.Loader{
		Getenv: func(k string) string { return env[k] },
		ReadFile: func(p string) ([]byte, error) {
			if content, ok := files[p]; ok {
				return []byte(content), nil
			}
			return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
		},
		ConfigDir: func() (string, error) { return "/home/u/.config", nil },
	}
}

func TestLoader_Defaults(t *testing.T) {
	s, err := newLoader(nil, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}

func TestLoader_File(t *testing.T) {
	files := map[string]string{
		"/home/u/.config/onsave/config.yaml": `
log_format: JSON
verbose: true
max_concurrency: 2
debounce: 200ms
ignore_dirs: [".git", "vendor"]
config_cache_size: 16
`,
	}

	s, err := newLoader(nil, files).Load()
	require.NoError(t, err)

	assert.Equal(t, domain.LogFormatJSON, s.LogFormat)
	assert.True(t, s.Verbose)
	assert.Equal(t, 2, s.MaxConcurrency)
	assert.Equal(t, 200*time.Millisecond, s.Debounce)
	assert.Equal(t, []string{".git", "vendor"}, s.IgnoreDirs)
	assert.Equal(t, 16, s.ConfigCacheSize)
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	files := map[string]string{"/home/u/.config/onsave/config.yaml": "max_concurrency: 8\n"}

	s, err := newLoader(nil, files).Load()
	require.NoError(t, err)

	want := domain.DefaultSettings()
	want.MaxConcurrency = 8
	assert.Equal(t, want, s)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	files := map[string]string{"/etc/onsave.yaml": "log_format: pretty\nmax_concurrency: 2\n"}
	env := map[string]string{
		settings.EnvConfig:         "/etc/onsave.yaml",
		settings.EnvLogFormat:      "json",
		settings.EnvVerbose:        "1",
		settings.EnvMaxConcurrency: "6",
		settings.EnvDebounce:       "1s",
	}

	s, err := newLoader(env, files).Load()
	require.NoError(t, err)

	assert.Equal(t, domain.LogFormatJSON, s.LogFormat)
	assert.True(t, s.Verbose)
	assert.Equal(t, 6, s.MaxConcurrency)
	assert.Equal(t, time.Second, s.Debounce)
}

func TestLoader_ExplicitMissingFileFails(t *testing.T) {
	env := map[string]string{settings.EnvConfig: "/nope.yaml"}

	_, err := newLoader(env, nil).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, domain.ErrSettingsReadFailed)
}

func TestLoader_UnreadableFileFails(t *testing.T) {
	l := newLoader(nil, nil)
	l.ReadFile = func(p string) ([]byte, error) {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrPermission}
	}

	_, err := l.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSettingsReadFailed)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.False(t, errors.Is(err, domain.ErrSettingsParseFailed))
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr error
	}{
		{name: "malformed yaml", file: "max_concurrency: [", wantErr: domain.ErrSettingsParseFailed},
		{name: "unknown log format", file: "log_format: xml\n", wantErr: domain.ErrInvalidSettings},
		{name: "zero concurrency", file: "max_concurrency: 0\n", wantErr: domain.ErrInvalidSettings},
		{name: "bad debounce", file: "debounce: soon\n", wantErr: domain.ErrInvalidSettings},
		{name: "negative debounce", file: "debounce: -1s\n", wantErr: domain.ErrInvalidSettings},
		{name: "zero cache", file: "config_cache_size: 0\n", wantErr: domain.ErrInvalidSettings},
		{name: "bad env concurrency", env: map[string]string{settings.EnvMaxConcurrency: "many"}, wantErr: domain.ErrInvalidSettings},
		{name: "bad env verbose", env: map[string]string{settings.EnvVerbose: "loud"}, wantErr: domain.ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			if tt.file != "" {
				files["/home/u/.config/onsave/config.yaml"] = tt.file
			}

			_, err := newLoader(tt.env, files).Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoader_DotEnv(t *testing.T) {
	t.Setenv(settings.EnvMaxConcurrency, "")
	require.NoError(t, os.Unsetenv(settings.EnvMaxConcurrency))

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(settings.EnvMaxConcurrency+"=3\n"), 0o600))

	l := newLoader(nil, nil)
	l.Getenv = os.Getenv
	l.DotEnv = []string{envFile, filepath.Join(dir, "missing.env")}

	s, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, s.MaxConcurrency)
}

func TestLoader_NoConfigDir(t *testing.T) {
	l := newLoader(nil, nil)
	l.ConfigDir = func() (string, error) { return "", errors.New("no home") }

	s, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}
