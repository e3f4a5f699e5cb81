package domain

import (
	"runtime"
	"strings"
)

// pathStyle describes one path convention. Paths reported by a host may follow
// Windows rules even when onsave runs elsewhere (e.g. an editor on a Windows
// share), so the convention is inferred from each path instead of GOOS alone.
type pathStyle struct {
	separator byte
	isSep     func(c byte) bool
	equal     func(a, b string) bool
}

var (
	windowsStyle = pathStyle{
		separator: '\\',
		isSep:     func(c byte) bool { return c == '\\' || c == '/' },
		equal:     strings.EqualFold,
	}
	posixStyle = pathStyle{
		separator: '/',
		isSep:     func(c byte) bool { return c == '/' },
		equal:     func(a, b string) bool { return a == b },
	}
)

// styleOf picks the convention for p: drive-letter and UNC paths are Windows
// paths, everything else follows the host.
func styleOf(p string) pathStyle {
	if hasDriveLetter(p) || strings.HasPrefix(p, `\\`) {
		return windowsStyle
	}
	if runtime.GOOS == "windows" {
		return windowsStyle
	}
	return posixStyle
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// IsAbsolutePath reports whether p is absolute under its own convention.
func IsAbsolutePath(p string) bool {
	if p == "" {
		return false
	}
	if hasDriveLetter(p) {
		return len(p) > 2 && windowsStyle.isSep(p[2])
	}
	if strings.HasPrefix(p, `\\`) {
		return true
	}
	return styleOf(p).isSep(p[0])
}

func (s pathStyle) lastSep(p string) int {
	for i := len(p) - 1; i >= 0; i-- {
		if s.isSep(p[i]) {
			return i
		}
	}
	return -1
}

// base returns the last element of p.
func (s pathStyle) base(p string) string {
	if i := s.lastSep(p); i >= 0 {
		return p[i+1:]
	}
	if hasDriveLetter(p) {
		return p[2:]
	}
	return p
}

// dir returns everything but the last element of p. The root keeps its
// trailing separator ("C:\", "/").
func (s pathStyle) dir(p string) string {
	i := s.lastSep(p)
	if i < 0 {
		if hasDriveLetter(p) {
			return p[:2]
		}
		return ""
	}
	d := p[:i]
	switch {
	case d == "":
		return p[:1]
	case len(d) == 2 && hasDriveLetter(d):
		return p[:3]
	}
	return d
}

// split breaks p into non-empty elements, dropping "." elements.
func (s pathStyle) split(p string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(p); i++ {
		if i == len(p) || s.isSep(p[i]) {
			if part := p[start:i]; part != "" && part != "." {
				parts = append(parts, part)
			}
			start = i + 1
		}
	}
	return parts
}

// rel returns the minimal relative path from the directory root to target,
// using ".." elements when target lies outside root. When the two paths share
// no volume, target is returned unchanged.
func (s pathStyle) rel(root, target string) string {
	if root == "" {
		return target
	}
	base := s.split(root)
	parts := s.split(target)

	if s.separator == '\\' && len(base) > 0 && len(parts) > 0 && !s.equal(base[0], parts[0]) {
		return target
	}

	common := 0
	for common < len(base) && common < len(parts) && s.equal(base[common], parts[common]) {
		common++
	}

	out := make([]string, 0, len(base)-common+len(parts)-common)
	for range len(base) - common {
		out = append(out, "..")
	}
	out = append(out, parts[common:]...)

	if len(out) == 0 {
		return "."
	}
	return strings.Join(out, string(s.separator))
}
