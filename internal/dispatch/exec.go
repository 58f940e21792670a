// exec.go is the terminal boundary of the entrypoint: a true process
// replacement. It is deliberately kept apart from the decision logic so
// the dispatch algorithm stays unit-testable — nothing here runs under
// tests.
package dispatch

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// CurrentIdentity snapshots the effective identity of the running
// process. Taken once at startup and passed into ComputeExecChain as a
// plain value.
func CurrentIdentity() model.Identity {
	return model.Identity{UID: os.Geteuid()}
}

// Exec replaces the current process image with the given chain. On
// success it never returns: the chain's first element (normally the
// init supervisor) takes over PID 1, inheriting this process's
// environment and file descriptors, so it receives and forwards
// termination signals and reaps zombies.
//
// An error return means the replacement did not happen — the program
// that was supposed to run could not be resolved or exec'd — and the
// caller must exit non-zero.
func Exec(chain model.ExecChain) error {
	if len(chain) == 0 {
		return model.NewCLIError(model.ExitGeneralError, "empty exec chain")
	}

	// syscall.Exec needs an absolute path; the chain carries bare
	// program names resolved against PATH like a shell's exec would.
	path, err := exec.LookPath(chain.Argv0())
	if err != nil {
		return model.WrapCLIError(
			model.ExitServiceUnavailable,
			"exec target not found on PATH",
			err,
		)
	}

	if err := syscall.Exec(path, chain, os.Environ()); err != nil {
		return model.WrapCLIError(
			model.ExitGeneralError,
			"process replacement failed",
			err,
		)
	}

	// Unreachable: a successful Exec does not return.
	return nil
}
