// Package config resolves .onsaveconfig cascades for saved files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigResolver = (*Resolver)(nil)

// cachedFile is a parsed configuration file and the stat it was parsed at.
type cachedFile struct {
	modTime time.Time
	size    int64
	file    *configFile
}

// layer is a configuration file found while walking up from a saved file.
type layer struct {
	dir  string
	file *configFile
}

// Resolver implements ports.ConfigResolver over EditorConfig-style files.
type Resolver struct {
	fs     FileSystem
	logger ports.Logger
	cache  *lru.Cache[string, cachedFile]
}

// NewResolver creates a Resolver that keeps up to cacheSize parsed files.
func NewResolver(fsys FileSystem, logger ports.Logger, cacheSize int) (*Resolver, error) {
	cache, err := lru.New[string, cachedFile](cacheSize)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create config cache"), "size", cacheSize)
	}
	return &Resolver{fs: fsys, logger: logger, cache: cache}, nil
}

// Resolve merges every section matching filePath, from the outermost
// configuration file inwards, so closer files win. Within one file later
// sections win. The walk stops at a file declaring root = true.
func (r *Resolver) Resolve(filePath string) (domain.Properties, bool, error) {
	if !filepath.IsAbs(filePath) {
		return nil, false, zerr.With(
			zerr.Wrap(domain.ErrFileNotAbsolute, "cannot resolve configuration"), "file", filePath)
	}
	filePath = filepath.Clean(filePath)

	var layers []layer
	for dir := filepath.Dir(filePath); ; {
		path := filepath.Join(dir, domain.ConfigFileName)
		f, ok, err := r.load(path)
		if err != nil {
			r.logger.Warn(fmt.Sprintf("ignoring %s: %v", path, err))
		}
		if ok {
			layers = append(layers, layer{dir: dir, file: f})
			if f.root {
				break
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	props := domain.Properties{}
	for i := len(layers) - 1; i >= 0; i-- {
		rel, err := filepath.Rel(layers[i].dir, filePath)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		for _, sec := range layers[i].file.sections {
			if !sec.matches(rel) {
				continue
			}
			for k, v := range sec.props {
				props[k] = v
			}
		}
	}

	if len(props) == 0 {
		return nil, false, nil
	}
	return props, true, nil
}

// load returns the parsed file at path. Missing files report false without an
// error; unreadable or malformed files report false with the reason.
func (r *Resolver) load(path string) (*configFile, bool, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		r.cache.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fileError(domain.ErrConfigReadFailed, err, "cannot stat config file", path)
	}
	if info.IsDir() {
		return nil, false, nil
	}

	if c, ok := r.cache.Get(path); ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		return c.file, true, nil
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, false, fileError(domain.ErrConfigReadFailed, err, "cannot read config file", path)
	}

	f, invalid, err := parseConfigFile(data)
	if err != nil {
		return nil, false, fileError(domain.ErrConfigParseFailed, err, "cannot parse config file", path)
	}
	for _, glob := range invalid {
		r.logger.Warn(fmt.Sprintf("ignoring section [%s] in %s: invalid glob", glob, path))
	}

	r.cache.Add(path, cachedFile{modTime: info.ModTime(), size: info.Size(), file: f})
	return f, true, nil
}

// fileError classifies err under sentinel.
func fileError(sentinel, err error, msg, path string) error {
	return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", sentinel, err), msg), "path", path)
}
