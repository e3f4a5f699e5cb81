package domain

import "time"

// LogFormat selects the log sink encoding.
type LogFormat string

const (
	// LogFormatPretty writes colored human readable lines.
	LogFormatPretty LogFormat = "pretty"
	// LogFormatJSON writes one JSON object per line.
	LogFormatJSON LogFormat = "json"
)

// Settings are the tool-level options, independent of any project.
type Settings struct {
	LogFormat       LogFormat
	Verbose         bool
	MaxConcurrency  int
	Debounce        time.Duration
	IgnoreDirs      []string
	ConfigCacheSize int
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		LogFormat:       LogFormatPretty,
		MaxConcurrency:  4,
		Debounce:        50 * time.Millisecond,
		IgnoreDirs:      []string{".git", ".jj", "node_modules"},
		ConfigCacheSize: 256,
	}
}
