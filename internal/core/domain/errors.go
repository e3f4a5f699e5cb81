package domain

import "go.trai.ch/zerr"

var (
	// ErrNotACommandConfiguration is returned when the resolved properties carry no command key.
	// It is the normal outcome for configuration sections unrelated to onsave.
	ErrNotACommandConfiguration = zerr.New(ConfigFileName + " found, but invalid for this file")

	// ErrNoConfiguration is returned when no configuration file applies to a file.
	ErrNoConfiguration = zerr.New("no " + ConfigFileName + " applies to this file")

	// ErrCommandNotFound is returned when the configured executable cannot be located.
	ErrCommandNotFound = zerr.New("command not found, check the command and your PATH")

	// ErrExecutionFailed is returned for any other process launch or I/O failure.
	ErrExecutionFailed = zerr.New("command execution failed")

	// ErrCommandFailed is returned when a command ran but exited non-zero or timed out.
	ErrCommandFailed = zerr.New("command did not succeed")

	// ErrWorkingDirectoryNotFound is returned when the working directory does not exist.
	ErrWorkingDirectoryNotFound = zerr.New("working directory not found")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrSettingsReadFailed is returned when the settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrInvalidSettings is returned when a settings value is out of range.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrHostClosed is returned when a document host is used after shutdown.
	ErrHostClosed = zerr.New("document host closed")

	// ErrDocumentNotOpen is returned when subscribing to a document the host does not know.
	ErrDocumentNotOpen = zerr.New("document is not open")

	// ErrDocumentAlreadySubscribed is returned when a document already has a save handler.
	ErrDocumentAlreadySubscribed = zerr.New("document already has a save subscription")

	// ErrInvalidEvent is returned when a host message cannot be decoded.
	ErrInvalidEvent = zerr.New("invalid host event")

	// ErrInvalidRoot is returned when the project root is not an existing directory.
	ErrInvalidRoot = zerr.New("project root is not a directory")

	// ErrUnknownOutputFormat is returned for an output format onsave cannot render.
	ErrUnknownOutputFormat = zerr.New("unknown output format")

	// ErrFileNotAbsolute is returned when a file path is not absolute.
	ErrFileNotAbsolute = zerr.New("file path must be absolute")
)
