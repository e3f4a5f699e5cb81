//go:build !windows

package shell

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mattn/go-shellwords"
)

// newCommand splits arguments with POSIX shell quoting rules.
func newCommand(executable, arguments string) (*exec.Cmd, error) {
	args, err := shellwords.Parse(arguments)
	if err != nil {
		return nil, err
	}
	return exec.Command(executable, args...), nil //nolint:gosec // user configured command
}

// lookPath searches for an executable in the directories named by PATH.
// Empty and relative elements are skipped: they would resolve against the
// daemon's working directory, not the saved file's.
func lookPath(file string) (string, error) {
	path := os.Getenv("PATH")
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if !filepath.IsAbs(dir) {
			continue
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
