//go:build tools

// Package config tools.go records, under the tools build tag, dependencies
// that the config package also imports directly (fsnotify in watcher.go,
// go-toml/v2 in loader.go), so they stay listed in go.mod.
package config

import (
	// fsnotify is used for hot-reload file watching (Plan 07-03)
	_ "github.com/fsnotify/fsnotify"

	// go-toml/v2 is used for TOML config file parsing (Plan 07-02)
	_ "github.com/pelletier/go-toml/v2"
)
