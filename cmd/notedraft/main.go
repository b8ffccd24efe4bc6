// Package main is the entry point for notedraft.
package main

import "github.com/dshills/notedraft/cmd/notedraft/cmd"

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)
	cmd.Execute()
}
