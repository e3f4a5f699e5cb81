package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-ini/ini"
	"go.trai.ch/onsave/internal/core/domain"
)

// keyRoot in the preamble stops the upward search.
const keyRoot = "root"

// configFile is one parsed configuration file.
type configFile struct {
	root     bool
	sections []section
}

// section is a glob header and the properties below it.
type section struct {
	glob    string
	pattern string
	props   domain.Properties
}

// matches reports whether rel, a slash separated path relative to the
// directory holding the configuration file, is selected by the section.
func (s section) matches(rel string) bool {
	return doublestar.MatchUnvalidated(s.pattern, rel)
}

var loadOptions = ini.LoadOptions{
	InsensitiveKeys:         true,
	IgnoreContinuation:      true,
	IgnoreInlineComment:     true,
	SkipUnrecognizableLines: true,
	PreserveSurroundedQuote: true,
	AllowNonUniqueSections:  true,
	KeyValueDelimiters:      "=",
}

// parseConfigFile parses data in EditorConfig syntax. Sections whose glob
// is invalid are dropped and returned by header so the caller can report
// them; a file that cannot be tokenized at all is an error.
func parseConfigFile(data []byte) (*configFile, []string, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, nil, err
	}

	out := &configFile{}
	var invalid []string

	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			if k, err := sec.GetKey(keyRoot); err == nil {
				out.root = strings.EqualFold(strings.TrimSpace(k.Value()), "true")
			}
			continue
		}

		pattern, ok := compileGlob(sec.Name())
		if !ok {
			invalid = append(invalid, sec.Name())
			continue
		}

		props := make(domain.Properties, len(sec.Keys()))
		for _, k := range sec.Keys() {
			props[k.Name()] = k.Value()
		}

		out.sections = append(out.sections, section{glob: sec.Name(), pattern: pattern, props: props})
	}

	return out, invalid, nil
}

// compileGlob turns an EditorConfig section header into a doublestar pattern.
// Globs without a slash match at any depth; globs with one are anchored at
// the configuration file's directory.
func compileGlob(glob string) (string, bool) {
	pattern := strings.TrimSpace(glob)
	if pattern == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(pattern, "/"):
		pattern = pattern[1:]
	case !strings.Contains(pattern, "/"):
		pattern = "**/" + pattern
	}

	if !doublestar.ValidatePattern(pattern) {
		return "", false
	}
	return pattern, true
}
