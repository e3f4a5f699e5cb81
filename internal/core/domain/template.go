package domain

import (
	"strconv"
	"strings"
	"time"
)

// ConfigFileName is the reserved name of the per-directory configuration file.
const ConfigFileName = ".onsaveconfig"

// Recognized configuration keys. Any other key is ignored.
const (
	KeyCommand          = "command"
	KeyArguments        = "arguments"
	KeyWorkingDirectory = "working_directory"
	KeyTimeout          = "timeout_seconds"
	KeyAlwaysRun        = "always_run"
)

// DefaultTimeout is used when timeout_seconds is absent or unparsable.
const DefaultTimeout = 30 * time.Second

// ignoreSentinels are command values meaning "do nothing for matching files".
var ignoreSentinels = []string{"ignore", "unset"}

// Properties is the flat key/value mapping resolved for a single file from the
// configuration cascade. Keys are lowercase.
type Properties map[string]string

// Get returns the value stored under key.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// CommandTemplate is the parsed, not yet expanded description of what to run
// when a file is saved. It is immutable once built by TryParse.
type CommandTemplate struct {
	command          string
	arguments        string
	hasArguments     bool
	workingDirectory string
	hasWorkingDir    bool
	timeout          time.Duration
	alwaysRun        bool
}

// TryParse builds a CommandTemplate from resolved properties.
//
// It returns ErrNotACommandConfiguration when the command key is absent.
// Optional keys that fail to parse keep their defaults.
func TryParse(props Properties) (*CommandTemplate, error) {
	command, ok := props.Get(KeyCommand)
	if !ok {
		return nil, ErrNotACommandConfiguration
	}

	tmpl := &CommandTemplate{
		command: command,
		timeout: DefaultTimeout,
	}

	if args, ok := props.Get(KeyArguments); ok {
		tmpl.arguments = args
		tmpl.hasArguments = true
	}

	if dir, ok := props.Get(KeyWorkingDirectory); ok {
		tmpl.workingDirectory = dir
		tmpl.hasWorkingDir = true
	}

	if raw, ok := props.Get(KeyTimeout); ok {
		if seconds, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && seconds >= 0 {
			tmpl.timeout = time.Duration(seconds) * time.Second
		}
	}

	if raw, ok := props.Get(KeyAlwaysRun); ok {
		if always, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw))); err == nil {
			tmpl.alwaysRun = always
		}
	}

	return tmpl, nil
}

// Command returns the executable name or path, possibly containing {solution_directory}.
func (t *CommandTemplate) Command() string { return t.command }

// Arguments returns the argument template and whether one was configured.
func (t *CommandTemplate) Arguments() (string, bool) { return t.arguments, t.hasArguments }

// WorkingDirectory returns the configured working directory and whether one was set.
func (t *CommandTemplate) WorkingDirectory() (string, bool) {
	return t.workingDirectory, t.hasWorkingDir
}

// Timeout returns how long to wait for the command. Zero means no bound.
func (t *CommandTemplate) Timeout() time.Duration { return t.timeout }

// AlwaysRun reports whether saves trigger the command even when content is unchanged.
func (t *CommandTemplate) AlwaysRun() bool { return t.alwaysRun }

// ShouldIgnore reports whether the template is inert: an empty command or one
// of the reserved sentinels.
func (t *CommandTemplate) ShouldIgnore() bool {
	if strings.TrimSpace(t.command) == "" {
		return true
	}
	for _, sentinel := range ignoreSentinels {
		if strings.EqualFold(t.command, sentinel) {
			return true
		}
	}
	return false
}
