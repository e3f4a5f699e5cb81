// Package output provides utilities for creating terminal writers with a
// consistent color profile across the CLI.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorProfile returns the color profile to use for terminal output.
// It returns Ascii when NO_COLOR is set and detects the terminal otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a new termenv.Output with the shared profile logic.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// NewRenderer creates a lipgloss renderer for w using the shared profile.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(ColorProfile())
	return r
}
