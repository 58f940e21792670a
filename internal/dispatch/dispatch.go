// dispatch.go implements the exec-chain computation for the container
// entrypoint. The algorithm mirrors the canonical docker-library
// entrypoint convention: leading flags and known subcommands are routed
// to the service binary, anything else passes through untouched.
package dispatch

import (
	"context"
	"strings"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// Names of the external collaborators the entrypoint wires together.
// All three are expected on PATH inside the container image.
const (
	// ServiceBinary is the packaged symbol-lookup service executable.
	// It must answer `symbolserver <subcommand> -h` with exit code 0
	// exactly when <subcommand> is recognized.
	ServiceBinary = "symbolserver"

	// ServiceAccount is the unprivileged account the service runs as.
	ServiceAccount = "symbolserver"

	// InitSupervisor is the minimal PID 1 that forwards signals and
	// reaps orphaned children after the entrypoint execs away.
	InitSupervisor = "tini"

	// PrivilegeDropTool re-executes the remaining chain as an
	// unprivileged account after root-only setup has run.
	PrivilegeDropTool = "gosu"
)

// ProbeFunc reports whether the given first argument is a known
// subcommand of the service binary. A (false, nil) return means the
// binary ran and rejected the subcommand; a non-nil error means the
// binary could not be invoked at all, which is fatal.
type ProbeFunc func(ctx context.Context, subcommand string) (bool, error)

// Decision is the outcome of the dispatch algorithm: the final exec
// chain, the classified invocation mode, and whether the data-directory
// preparation must run before exec.
type Decision struct {
	// Chain is the complete command vector to exec. Immutable once
	// returned.
	Chain model.ExecChain

	// Mode records how the argument vector was classified.
	Mode model.InvocationMode

	// NeedsPrepare is true only for a service invocation under the root
	// identity: the symbol directory must exist and be owned by the
	// service account before the privilege drop.
	NeedsPrepare bool
}

// ComputeExecChain classifies the argument vector and builds the exec
// chain. The rules are evaluated in order, first match wins:
//
//  1. First argument starts with "-"  → prepend the service binary name.
//  2. First argument probes as a known subcommand → prepend likewise.
//  3. Otherwise the vector is an arbitrary command and passes through
//     completely unmodified.
//
// When the (possibly rewritten) first argument is the service binary,
// the vector is wrapped with the init supervisor, and — under root —
// additionally with the privilege-drop segment:
//
//	root:     [tini, --, gosu, symbolserver] + argv
//	non-root: [tini, --] + argv
//
// The probe is only consulted for rule 2; a probe error (service binary
// missing or not executable) aborts the dispatch rather than silently
// degrading to an arbitrary command.
func ComputeExecChain(ctx context.Context, argv []string, identity model.Identity, probe ProbeFunc) (*Decision, error) {
	// An empty vector cannot be dispatched: there is nothing to exec and
	// no default command to fall back to. The image's CMD normally
	// guarantees at least one argument.
	if len(argv) == 0 {
		return nil, model.NewCLIError(model.ExitGeneralError, "no command given to the entrypoint")
	}

	mode := model.ModeArbitraryCommand
	rewritten := argv

	switch {
	case strings.HasPrefix(argv[0], "-"):
		// Rule 1: a leading flag means the user wants the service with
		// extra flags, e.g. "--config=/etc/symbolserver.yml run".
		mode = model.ModeFlagLed
		rewritten = prepend(ServiceBinary, argv)

	default:
		// Rule 2: ask the service binary whether it recognizes the first
		// argument as one of its subcommands (run, sync-symbols, ...).
		known, err := probe(ctx, argv[0])
		if err != nil {
			return nil, err
		}
		if known {
			mode = model.ModeKnownSubcommand
			rewritten = prepend(ServiceBinary, argv)
		}
		// Rule 3: not a subcommand — leave the vector untouched so
		// operators can run diagnostic commands like "bash".
	}

	// Arbitrary commands are never wrapped: no init supervisor, no
	// privilege drop, no directory preparation.
	if rewritten[0] != ServiceBinary {
		return &Decision{
			Chain: model.ExecChain(rewritten),
			Mode:  mode,
		}, nil
	}

	// Service invocation: the init supervisor becomes PID 1 so signals
	// are forwarded and zombies reaped after the entrypoint execs away.
	// Under root, gosu sits inside the init wrapper and drops to the
	// service account before the service starts.
	chain := make(model.ExecChain, 0, len(rewritten)+4)
	chain = append(chain, InitSupervisor, "--")
	if identity.IsRoot() {
		chain = append(chain, PrivilegeDropTool, ServiceAccount)
	}
	chain = append(chain, rewritten...)

	return &Decision{
		Chain:        chain,
		Mode:         mode,
		NeedsPrepare: identity.IsRoot(),
	}, nil
}

// prepend returns a new vector with name in front of argv. The input
// slice is never mutated — the original argument vector is read-only.
func prepend(name string, argv []string) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, name)
	out = append(out, argv...)
	return out
}
