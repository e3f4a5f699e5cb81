package ports

import "go.trai.ch/onsave/internal/core/domain"

// Hasher derives content versions for hosts that have no version stamps of
// their own.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ContentVersion returns a version identifying the file's current content.
	ContentVersion(path string) (domain.Version, error)
}
