// Package settings loads tool-level options from an optional YAML file and
// the environment.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfig         = "ONSAVE_CONFIG"
	EnvLogFormat      = "ONSAVE_LOG_FORMAT"
	EnvVerbose        = "ONSAVE_VERBOSE"
	EnvMaxConcurrency = "ONSAVE_MAX_CONCURRENCY"
	EnvDebounce       = "ONSAVE_DEBOUNCE"
)

// Loader resolves domain.Settings.
type Loader struct {
	// Getenv reads the environment. It defaults to os.Getenv.
	Getenv func(string) string
	// ReadFile reads the settings file. It defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
	// ConfigDir returns the user configuration directory. It defaults to os.UserConfigDir.
	ConfigDir func() (string, error)
	// DotEnv lists .env files loaded before the environment is read.
	// Missing files are skipped.
	DotEnv []string
}

// NewLoader returns a Loader bound to the process environment.
func NewLoader() *Loader {
	return &Loader{
		Getenv:    os.Getenv,
		ReadFile:  os.ReadFile,
		ConfigDir: os.UserConfigDir,
		DotEnv:    []string{".env"},
	}
}

// Load returns the defaults overlaid with the settings file and then the
// environment.
func (l *Loader) Load() (domain.Settings, error) {
	for _, path := range l.DotEnv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to load env file"), "path", path)
		}
	}

	s := domain.DefaultSettings()

	path, explicit := l.path()
	if path != "" {
		if err := l.applyFile(&s, path, explicit); err != nil {
			return domain.Settings{}, err
		}
	}

	if err := l.applyEnv(&s); err != nil {
		return domain.Settings{}, err
	}

	if err := Validate(s); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

// path returns the settings file location and whether the user named it.
func (l *Loader) path() (string, bool) {
	if p := l.Getenv(EnvConfig); p != "" {
		return p, true
	}
	dir, err := l.ConfigDir()
	if err != nil || dir == "" {
		return "", false
	}
	return filepath.Join(dir, "onsave", "config.yaml"), false
}

func (l *Loader) applyFile(s *domain.Settings, path string, explicit bool) error {
	data, err := l.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrSettingsReadFailed, err), "cannot load settings"), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrSettingsParseFailed, err), "cannot load settings"), "path", path)
	}

	if file.LogFormat != nil {
		s.LogFormat = domain.LogFormat(strings.ToLower(*file.LogFormat))
	}
	if file.Verbose != nil {
		s.Verbose = *file.Verbose
	}
	if file.MaxConcurrency != nil {
		s.MaxConcurrency = *file.MaxConcurrency
	}
	if file.Debounce != nil {
		d, err := time.ParseDuration(*file.Debounce)
		if err != nil {
			return invalid("debounce", *file.Debounce)
		}
		s.Debounce = d
	}
	if file.IgnoreDirs != nil {
		s.IgnoreDirs = file.IgnoreDirs
	}
	if file.ConfigCacheSize != nil {
		s.ConfigCacheSize = *file.ConfigCacheSize
	}
	return nil
}

func (l *Loader) applyEnv(s *domain.Settings) error {
	if v := l.Getenv(EnvLogFormat); v != "" {
		s.LogFormat = domain.LogFormat(strings.ToLower(v))
	}
	if v := l.Getenv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return invalid(EnvVerbose, v)
		}
		s.Verbose = b
	}
	if v := l.Getenv(EnvMaxConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalid(EnvMaxConcurrency, v)
		}
		s.MaxConcurrency = n
	}
	if v := l.Getenv(EnvDebounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return invalid(EnvDebounce, v)
		}
		s.Debounce = d
	}
	return nil
}

// Validate rejects settings the adapters cannot run with.
func Validate(s domain.Settings) error {
	switch {
	case s.LogFormat != domain.LogFormatPretty && s.LogFormat != domain.LogFormatJSON:
		return invalid("log_format", string(s.LogFormat))
	case s.MaxConcurrency < 1:
		return invalid("max_concurrency", strconv.Itoa(s.MaxConcurrency))
	case s.Debounce < 0:
		return invalid("debounce", s.Debounce.String())
	case s.ConfigCacheSize < 1:
		return invalid("config_cache_size", strconv.Itoa(s.ConfigCacheSize))
	}
	return nil
}

func invalid(field, value string) error {
	err := zerr.Wrap(domain.ErrInvalidSettings, "settings value out of range")
	err = zerr.With(err, "field", field)
	return zerr.With(err, "value", value)
}
