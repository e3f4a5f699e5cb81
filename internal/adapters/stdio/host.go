// Package stdio is a document host driven by JSON lines, one message per
// line. Editors integrate by writing open, save and close messages to
// onsave's standard input.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.trai.ch/onsave/internal/adapters/docs"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/zerr"
)

// Message types.
const (
	TypeOpen  = "open"
	TypeSave  = "save"
	TypeClose = "close"
)

const maxMessageSize = 1 << 20

// Message is one line of host input.
//
// Path and Version may be omitted on save: the document's path is used and
// the version is computed from the file's content. Root may be omitted on
// open and defaults to the root Serve was started with.
type Message struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Root    string `json:"root,omitempty"`
	Action  string `json:"action,omitempty"`
}

// Host feeds decoded messages into a document registry.
type Host struct {
	registry *docs.Registry
	hasher   ports.Hasher
	logger   ports.Logger
}

// NewHost creates a Host.
func NewHost(registry *docs.Registry, hasher ports.Hasher, logger ports.Logger) *Host {
	return &Host{
		registry: registry,
		hasher:   hasher,
		logger:   logger,
	}
}

// Serve handles messages from r until it is exhausted or ctx is done.
// Malformed messages are logged and skipped.
func (h *Host) Serve(ctx context.Context, r io.Reader, root string) error {
	lines := make(chan []byte)
	var scanErr error

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
		for sc.Scan() {
			select {
			case lines <- bytes.Clone(sc.Bytes()):
			case <-ctx.Done():
				return
			}
		}
		scanErr = sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if scanErr != nil {
					return zerr.Wrap(scanErr, "failed to read host messages")
				}
				return nil
			}
			if err := h.Handle(line, root); err != nil {
				h.logger.Error(err)
			}
		}
	}
}

// Handle applies one message. Blank lines are ignored.
func (h *Host) Handle(line []byte, root string) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return zerr.With(invalid(err), "message", string(line))
	}
	if msg.ID == "" {
		return zerr.With(invalid(errors.New("missing id")), "message", string(line))
	}
	id := domain.DocumentID(msg.ID)

	switch msg.Type {
	case TypeOpen:
		if msg.Root == "" {
			msg.Root = root
		}
		version := domain.Version(msg.Version)
		if version == "" {
			version = h.version(msg.Path)
		}
		opened, err := h.registry.Open(domain.Document{
			ID:      id,
			Path:    msg.Path,
			Version: version,
			Root:    msg.Root,
		})
		if err != nil {
			return err
		}
		if !opened {
			h.logger.Debug(fmt.Sprintf("document %s is already open", msg.ID))
		}
		return nil

	case TypeSave:
		action, ok := domain.ParseFileAction(msg.Action)
		if !ok {
			return zerr.With(invalid(fmt.Errorf("unknown action %q", msg.Action)), "document", msg.ID)
		}
		if msg.Path == "" {
			if doc, ok := h.registry.Lookup(id); ok {
				msg.Path = doc.Path
			}
		}
		version := domain.Version(msg.Version)
		if version == "" && action == domain.ActionContentSaved {
			version = h.version(msg.Path)
		}
		return h.registry.Notify(id, domain.SaveEvent{
			Action:  action,
			Path:    msg.Path,
			Version: version,
		})

	case TypeClose:
		h.registry.Close(id)
		return nil

	default:
		return zerr.With(invalid(fmt.Errorf("unknown type %q", msg.Type)), "document", msg.ID)
	}
}

// version hashes the file at path. Unreadable or relative paths get the
// empty version.
func (h *Host) version(path string) domain.Version {
	if !domain.IsAbsolutePath(path) {
		return ""
	}
	v, err := h.hasher.ContentVersion(path)
	if err != nil {
		h.logger.Debug(fmt.Sprintf("cannot hash %s: %v", path, err))
		return ""
	}
	return v
}

func invalid(err error) error {
	return zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrInvalidEvent, err), "cannot handle host message")
}
