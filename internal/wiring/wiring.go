// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/onsave/internal/adapters/config"
	_ "go.trai.ch/onsave/internal/adapters/dispatch"
	_ "go.trai.ch/onsave/internal/adapters/docs"
	_ "go.trai.ch/onsave/internal/adapters/fs"
	_ "go.trai.ch/onsave/internal/adapters/logger"
	_ "go.trai.ch/onsave/internal/adapters/settings"
	_ "go.trai.ch/onsave/internal/adapters/shell"
	_ "go.trai.ch/onsave/internal/adapters/stdio"
	_ "go.trai.ch/onsave/internal/adapters/telemetry"
	_ "go.trai.ch/onsave/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/onsave/internal/app"
	_ "go.trai.ch/onsave/internal/engine/onsave"
)
