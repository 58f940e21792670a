// Package dispatch implements the container entrypoint decision logic:
// given the raw argument vector a container runtime hands to process 1,
// it determines what the user wants to run and builds the final exec
// chain (init supervisor, optional privilege drop, target command).
//
// The decision itself (ComputeExecChain) is a pure function over the
// argument vector, an identity snapshot, and an injected subcommand
// probe, so it can be unit tested without subprocesses or privileges.
// The side-effecting boundaries (Probe, EnsureSymbolDir, Exec) live in
// their own functions and are exercised only at startup.
package dispatch
