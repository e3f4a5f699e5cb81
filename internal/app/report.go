package app

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/onsave/internal/engine/onsave"
	"go.trai.ch/onsave/internal/ui/output"
	"go.trai.ch/onsave/internal/ui/style"
	"gopkg.in/yaml.v3"
)

// Output formats for Check.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// Plan statuses.
const (
	StatusRuns         = "runs"
	StatusIgnored      = "ignored"
	StatusNotACommand  = "not a command"
	StatusUnconfigured = "unconfigured"
)

// Report is the printable form of a plan.
type Report struct {
	File             string            `yaml:"file"`
	Root             string            `yaml:"root"`
	Status           string            `yaml:"status"`
	Command          string            `yaml:"command,omitempty"`
	WorkingDirectory string            `yaml:"working_directory,omitempty"`
	Timeout          string            `yaml:"timeout,omitempty"`
	AlwaysRun        bool              `yaml:"always_run,omitempty"`
	Properties       map[string]string `yaml:"properties,omitempty"`
}

// NewReport summarizes plan.
func NewReport(plan *onsave.Plan) Report {
	r := Report{
		File:       plan.File,
		Root:       plan.Root,
		Properties: plan.Properties,
	}

	switch {
	case !plan.Configured():
		r.Status = StatusUnconfigured
	case plan.Template == nil:
		r.Status = StatusNotACommand
	case plan.Ignored():
		r.Status = StatusIgnored
	default:
		r.Status = StatusRuns
		r.Command = plan.Line.String()
		r.WorkingDirectory = plan.Line.WorkingDirectory
		r.Timeout = plan.Template.Timeout().String()
		r.AlwaysRun = plan.Template.AlwaysRun()
	}
	return r
}

// RenderYAML writes reports as a YAML sequence.
func RenderYAML(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}

// RenderText writes reports as aligned key/value blocks.
func RenderText(w io.Writer, reports []Report) error {
	r := output.NewRenderer(w)
	heading := style.Heading(r)
	label := style.Label(r)
	value := style.Value(r)

	var sb strings.Builder
	row := func(key, val string) {
		sb.WriteString("  ")
		sb.WriteString(label.Render(key))
		sb.WriteString(value.Render(val))
		sb.WriteByte('\n')
	}

	for i, rep := range reports {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(heading.Render(rep.File))
		sb.WriteByte('\n')

		ok := rep.Status == StatusRuns
		glyph := style.Check
		switch rep.Status {
		case StatusIgnored, StatusUnconfigured:
			glyph = style.Circle
		case StatusNotACommand:
			glyph = style.Warning
		}
		row("status", style.Status(r, ok).Render(glyph+" "+rep.Status))

		if ok {
			row("command", rep.Command)
			row("working directory", rep.WorkingDirectory)
			row("timeout", rep.Timeout)
			row("always run", fmt.Sprintf("%t", rep.AlwaysRun))
		}

		keys := slices.Sorted(maps.Keys(rep.Properties))
		for j, k := range keys {
			name := ""
			if j == 0 {
				name = "properties"
			}
			row(name, k+" = "+rep.Properties[k])
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
