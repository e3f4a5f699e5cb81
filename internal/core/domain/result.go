package domain

// ProcessResult is the output captured from one command run.
type ProcessResult struct {
	// Stdout starts with a one-line banner naming the resolved command.
	Stdout string
	Stderr string
	// ExitCode is -1 when the process did not exit within the timeout or never started.
	ExitCode int
	// TimedOut is set when the process was still running when the wait gave up.
	TimedOut bool
}
