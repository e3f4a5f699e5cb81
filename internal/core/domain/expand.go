package domain

import (
	"net/url"
	"strings"
)

// Placeholders recognized in the arguments template. Only
// PlaceholderSolutionDirectory is also expanded inside the command.
const (
	PlaceholderFile              = "{file}"
	PlaceholderFileName          = "{filename}"
	PlaceholderDirectory         = "{directory}"
	PlaceholderFileInSolution    = "{file_in_solution}"
	PlaceholderSolutionDirectory = "{solution_directory}"
)

// CommandLine is a template instantiated for one saved file.
type CommandLine struct {
	Executable       string
	Arguments        string
	WorkingDirectory string
}

// String renders the command line the way it is shown in log banners.
func (c CommandLine) String() string {
	if c.Arguments == "" {
		return c.Executable
	}
	return c.Executable + " " + c.Arguments
}

// Expand substitutes placeholders for filePath and projectRoot.
//
// Substitution is plain sequential string replacement: a path that itself
// contains a placeholder token can be substituted twice.
func Expand(tmpl *CommandTemplate, projectRoot, filePath string) CommandLine {
	style := styleOf(filePath)
	directory := style.dir(filePath)

	line := CommandLine{
		Executable:       strings.ReplaceAll(tmpl.Command(), PlaceholderSolutionDirectory, projectRoot),
		WorkingDirectory: directory,
	}

	if args, ok := tmpl.Arguments(); ok {
		args = strings.ReplaceAll(args, PlaceholderFile, filePath)
		args = strings.ReplaceAll(args, PlaceholderFileName, style.base(filePath))
		args = strings.ReplaceAll(args, PlaceholderDirectory, directory)
		args = strings.ReplaceAll(args, PlaceholderFileInSolution, fileInSolution(style, projectRoot, filePath))
		args = strings.ReplaceAll(args, PlaceholderSolutionDirectory, projectRoot)
		line.Arguments = args
	}

	if dir, ok := tmpl.WorkingDirectory(); ok {
		line.WorkingDirectory = dir
	}

	return line
}

// fileInSolution is filePath relative to projectRoot with percent escapes
// decoded. Text that is not a valid escape sequence is kept as is.
func fileInSolution(style pathStyle, projectRoot, filePath string) string {
	rel := style.rel(projectRoot, filePath)
	if decoded, err := url.PathUnescape(rel); err == nil {
		return decoded
	}
	return rel
}
