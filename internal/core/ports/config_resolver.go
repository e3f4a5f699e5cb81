// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/onsave/internal/core/domain"

// ConfigResolver resolves the effective configuration properties for a file.
//
//go:generate mockgen -source=config_resolver.go -destination=mocks/mock_config_resolver.go -package=mocks
type ConfigResolver interface {
	// Resolve walks the configuration cascade for filePath.
	//
	// The boolean is false when no configuration file applies to the file.
	// Files that cannot be read or parsed are skipped rather than failing
	// the resolution.
	Resolve(filePath string) (domain.Properties, bool, error)
}
