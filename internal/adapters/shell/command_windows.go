//go:build windows

package shell

import (
	"os/exec"
	"syscall"
)

// newCommand hands arguments to the child verbatim as its command line, so
// backslashes in expanded paths survive and the program parses its own
// arguments as Windows programs do.
func newCommand(executable, arguments string) (*exec.Cmd, error) {
	cmd := exec.Command(executable) //nolint:gosec // user configured command
	cmdLine := syscall.EscapeArg(executable)
	if arguments != "" {
		cmdLine += " " + arguments
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: cmdLine}
	return cmd, nil
}

func lookPath(file string) (string, error) {
	return exec.LookPath(file)
}
