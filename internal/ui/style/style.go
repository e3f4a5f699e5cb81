// Package style holds the colors and glyphs shared by everything onsave
// prints to a terminal.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#8B5CF6")
	Muted  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)

// Heading styles section titles such as the file name in a plan.
func Heading(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Bold(true).Foreground(Accent)
}

// Label styles the left column of key/value output.
func Label(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(Muted).Width(labelWidth)
}

// Value styles the right column of key/value output.
func Value(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle()
}

// Status styles a one-line verdict, green when ok and yellow otherwise.
func Status(r *lipgloss.Renderer, ok bool) lipgloss.Style {
	if ok {
		return r.NewStyle().Foreground(Green)
	}
	return r.NewStyle().Foreground(Yellow)
}

const labelWidth = 20
