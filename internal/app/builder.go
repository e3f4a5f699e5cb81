package app

import "go.trai.ch/onsave/internal/core/ports"

// Components holds what the command line needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger) *Components {
	return &Components{
		App:    app,
		Logger: logger,
	}
}
