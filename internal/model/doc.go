// Package model defines the domain types and value objects for the
// symbolserver container packaging tools.
//
// This package contains pure data structures with no external dependencies.
// All entities (InvocationMode, ExecChain, Identity, Release) are transient
// process-local values — neither the entrypoint dispatcher nor the release
// pipeline owns any persisted state.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
