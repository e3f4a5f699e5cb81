// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/onsave/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// messager is implemented by zerr errors; it reports one message without the chain.
type messager interface {
	Message() string
}

// metadataer is implemented by zerr errors carrying key/value context.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain as it is printed.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	// mu also serializes writes: handlers write to output unsynchronized.
	mu       sync.Mutex
	logger   *slog.Logger
	level    *slog.LevelVar
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty lines to stderr at info level.
func New() *Logger {
	l := &Logger{
		level:  &slog.LevelVar{},
		output: os.Stderr,
	}
	l.rebuild()
	return l
}

// SetOutput updates the logger's output destination.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging. The output is preserved.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetVerbose enables debug records.
func (l *Logger) SetVerbose(enable bool) {
	if enable {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: l.level}

	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(l.output, opts)
	} else {
		handler = NewPrettyHandler(l.output, opts)
	}
	l.logger = slog.New(handler)
}

// Debug logs a diagnostic message shown only in verbose mode.
func (l *Logger) Debug(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Warn(msg)
}

// Error logs err with its full cause chain.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the chain of err. zerr links contribute their own
// message and metadata; the first standard error ends the walk with its full
// text. Links with an empty message only carry metadata, which is folded into
// the next printed entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var carried map[string]any

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: carried})
			break
		}

		var meta map[string]any
		if md, ok := current.(metadataer); ok {
			meta = md.Metadata()
		}

		if m.Message() == "" && errors.Unwrap(current) != nil {
			carried = mergeMetadata(carried, meta)
			current = errors.Unwrap(current)
			continue
		}

		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: mergeMetadata(carried, meta)})
		carried = nil
		current = errors.Unwrap(current)
	}

	return entries
}

func mergeMetadata(into, from map[string]any) map[string]any {
	if into == nil {
		return from
	}
	for k, v := range from {
		into[k] = v
	}
	return into
}

// formatErrorEntries renders entries as:
//
//	Error: outer
//	       key: value
//
//	  Caused by:
//	    → inner
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			lines = appendMetadata(lines, "       ", entry.Metadata)
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		lines = appendMetadata(lines, "      ", entry.Metadata)
	}

	return strings.Join(lines, "\n")
}

func appendMetadata(lines []string, indent string, meta map[string]any) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, meta[k]))
	}
	return lines
}
