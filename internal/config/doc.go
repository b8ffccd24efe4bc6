// Package config loads notedraft settings.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//	1. Built-in defaults (Default)
//	2. A TOML file, usually ~/.config/notedraft/config.toml
//	3. NOTEDRAFT_* environment variables
//
// A Watcher can reload the file whenever it changes on disk and hand the new
// Config to a callback, which lets a running editor retune its history
// settings without a restart.
package config
