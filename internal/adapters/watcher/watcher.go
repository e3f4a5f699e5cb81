// Package watcher is a document host backed by the file system. Every
// regular file written under the watched root is treated as a document that
// was just saved.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/onsave/internal/adapters/docs"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/zerr"
)

// Watcher feeds file system writes into a document registry.
type Watcher struct {
	registry *docs.Registry
	hasher   ports.Hasher
	logger   ports.Logger
	settings domain.Settings
	skip     map[string]bool
}

// NewWatcher creates a Watcher. Directories named in settings.IgnoreDirs are
// never watched.
func NewWatcher(registry *docs.Registry, hasher ports.Hasher, logger ports.Logger, settings domain.Settings) *Watcher {
	skip := make(map[string]bool, len(settings.IgnoreDirs))
	for _, name := range settings.IgnoreDirs {
		skip[name] = true
	}
	return &Watcher{
		registry: registry,
		hasher:   hasher,
		logger:   logger,
		settings: settings,
		skip:     skip,
	}
}

// Run watches root recursively until ctx is done. Saves still inside the
// debounce window are delivered before Run returns.
func (w *Watcher) Run(ctx context.Context, root string) error {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrInvalidRoot, "cannot watch"), "root", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = fsw.Close() }()

	for dir := range w.directories(root) {
		if err := fsw.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}
	w.logger.Info("watching " + root)

	d := NewDebouncer(w.settings.Debounce, func(paths []string) {
		w.Saved(root, paths)
	})
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Flush()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				d.Flush()
				return nil
			}
			w.handle(fsw, d, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				d.Flush()
				return nil
			}
			w.logger.Warn(fmt.Sprintf("file watcher: %v", err))
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, d *Debouncer, event fsnotify.Event) {
	switch {
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if filepath.Base(event.Name) == domain.ConfigFileName {
			w.reload(filepath.Dir(event.Name))
			return
		}
		w.closeUnder(event.Name)

	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if event.Op.Has(fsnotify.Create) && !w.skip[info.Name()] {
				for dir := range w.directories(event.Name) {
					_ = fsw.Add(dir)
				}
			}
			return
		}
		if info.Mode().IsRegular() {
			d.Add(event.Name)
		}
	}
}

// Saved reports each path as a content save. A path seen for the first time
// is opened first, which makes the save its first trigger.
func (w *Watcher) Saved(root string, paths []string) {
	for _, path := range paths {
		if filepath.Base(path) == domain.ConfigFileName {
			w.reload(filepath.Dir(path))
			continue
		}

		version, err := w.hasher.ContentVersion(path)
		if err != nil {
			w.logger.Debug(fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}

		id := domain.DocumentID(path)
		if _, err := w.registry.Open(domain.Document{
			ID:      id,
			Path:    path,
			Version: version,
			Root:    root,
		}); err != nil {
			w.logger.Debug(fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}

		err = w.registry.Notify(id, domain.SaveEvent{
			Action:  domain.ActionContentSaved,
			Path:    path,
			Version: version,
		})
		if err != nil {
			w.logger.Debug(fmt.Sprintf("skipping %s: %v", path, err))
		}
	}
}

// reload closes every document governed by a configuration file in dir so
// the next save resolves its configuration again.
func (w *Watcher) reload(dir string) {
	if n := w.closeUnder(dir); n > 0 {
		w.logger.Info(fmt.Sprintf("%s in %s changed, reloading %d file(s)", domain.ConfigFileName, dir, n))
	}
}

// closeUnder closes the document at path and every document below it.
func (w *Watcher) closeUnder(path string) int {
	prefix := strings.TrimSuffix(path, string(filepath.Separator)) + string(filepath.Separator)

	n := 0
	for _, doc := range w.registry.Documents() {
		if doc.Path == path || strings.HasPrefix(doc.Path, prefix) {
			w.registry.Close(doc.ID)
			n++
		}
	}
	return n
}

// directories yields root and every directory below it that is not skipped.
func (w *Watcher) directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.skip[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
