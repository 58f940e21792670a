// Package main is the container entrypoint for the symbolserver image.
//
// It runs as process 1, decides from its argument vector whether the
// user wants the packaged service or an arbitrary command, and replaces
// itself with the final chain: init supervisor, optional privilege
// drop, target command. Exactly one exec transfer happens per
// invocation; the entrypoint never stays resident.
//
// This is deliberately a plain main rather than a cobra command:
// leading flags belong to the service binary and must pass through
// unparsed, which a CLI framework would intercept.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mmr-tortoise/symbolserver-image/internal/dispatch"
	"github.com/mmr-tortoise/symbolserver-image/internal/model"
	"github.com/mmr-tortoise/symbolserver-image/internal/serviceconfig"
)

func main() {
	ctx := context.Background()

	// Snapshot the inputs once: the received argument vector and the
	// effective identity. The decision function is pure over these.
	argv := os.Args[1:]
	identity := dispatch.CurrentIdentity()

	decision, err := dispatch.ComputeExecChain(ctx, argv, identity,
		dispatch.NewProbe(dispatch.ServiceBinary))
	if err != nil {
		fatal(err)
	}

	// Root-only, at most once per container start: make sure the symbol
	// directory exists and belongs to the service account before the
	// privilege drop takes effect.
	if decision.NeedsPrepare {
		dir, err := serviceconfig.ResolveSymbolDir(os.Getenv)
		if err != nil {
			fatal(err)
		}
		if err := dispatch.EnsureSymbolDir(dir, dispatch.ServiceAccount); err != nil {
			fatal(err)
		}
	}

	// Terminal step: true process replacement. On success this never
	// returns and the init supervisor takes over PID 1.
	if err := dispatch.Exec(decision.Chain); err != nil {
		fatal(err)
	}
}

// fatal reports a startup failure on stderr and exits with the error's
// own code when it carries one. Reached only before any exec — after a
// successful exec this process no longer exists.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[entrypoint] error: %v\n", err)

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		os.Exit(int(cliErr.Code))
	}
	os.Exit(int(model.ExitGeneralError))
}
