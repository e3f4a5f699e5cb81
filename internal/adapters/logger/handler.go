package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/onsave/internal/ui/output"
	"go.trai.ch/onsave/internal/ui/style"
)

// PrettyHandler is a slog.Handler that writes one colored line per record.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []string
	prefix string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var msg string
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		msg = style.Cross + " " + r.Message
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		msg = style.Warning + " " + r.Message
		color = termenv.RGBColor(string(style.Yellow))
	case r.Level >= slog.LevelInfo:
		msg = r.Message
		color = termenv.RGBColor(string(style.Muted))
	default:
		msg = style.Circle + " " + r.Message
		color = termenv.RGBColor(string(style.Muted))
	}

	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	parts = append(parts, h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, h.prefix, attr)
		return true
	})

	if len(parts) > 0 {
		msg += " " + strings.Join(parts, " ")
	}

	styled := h.out.String(msg).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]string, len(h.attrs), len(h.attrs)+len(attrs))
	copy(next, h.attrs)
	for _, attr := range attrs {
		next = appendAttr(next, h.prefix, attr)
	}

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  next,
		prefix: h.prefix,
	}
}

// WithGroup returns a new Handler that qualifies later keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		prefix: h.prefix + name + ".",
	}
}

// appendAttr renders attr as key=value pairs, flattening groups into dotted keys.
func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}

	if attr.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			parts = appendAttr(parts, groupPrefix, member)
		}
		return parts
	}

	return append(parts, prefix+attr.Key+"="+attr.Value.String())
}
