// Package fs implements file-system backed helpers for hosts.
package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher derives content versions from file bytes.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ContentVersion returns the XXHash of the file's content as 16 hex digits.
func (h *Hasher) ContentVersion(path string) (domain.Version, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return domain.Version(fmt.Sprintf("%016x", digest.Sum64())), nil
}
