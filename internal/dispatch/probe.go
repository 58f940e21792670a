// probe.go implements the real subcommand probe: it invokes the service
// binary with the candidate subcommand plus a help flag and inspects the
// exit status. Output is discarded — only the exit code matters.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// NewProbe returns a ProbeFunc that shells out to the given binary as
// "<binary> <subcommand> -h". The three possible outcomes are kept
// distinct:
//
//   - exit 0            → (true, nil): the subcommand is recognized
//   - clean non-zero    → (false, nil): the binary ran and rejected it
//   - failed to start   → (false, error): the binary is missing or not
//     executable, which must surface as a fatal startup error instead of
//     silently falling through to an arbitrary-command invocation
func NewProbe(binary string) ProbeFunc {
	return func(ctx context.Context, subcommand string) (bool, error) {
		cmd := exec.CommandContext(ctx, binary, subcommand, "-h")

		// The probe is a pure exit-code check. Help output would only
		// pollute the container log, so both streams are discarded.
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard

		err := cmd.Run()
		if err == nil {
			return true, nil
		}

		// exec.ExitError means the binary started and exited non-zero:
		// the subcommand is simply not recognized.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}

		// Anything else (ENOENT, EACCES, context cancelled) means the
		// service binary itself is unusable.
		return false, model.WrapCLIError(
			model.ExitServiceUnavailable,
			fmt.Sprintf("cannot invoke %s to probe subcommand %q", binary, subcommand),
			err,
		)
	}
}
