// Package main is the entry point for the release CLI.
//
// This binary builds the symbolserver container image, derives the
// release version from the Dockerfile, and publishes the version tag
// plus the floating aliases. All functionality lives in the
// internal/cli package, which defines the cobra command.
package main

import (
	"github.com/mmr-tortoise/symbolserver-image/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
// They provide binary identification for the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package, keeping the
	// build system decoupled from the CLI framework.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
