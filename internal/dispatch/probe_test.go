package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// The probe tests use small universal binaries instead of a real
// symbolserver: "true" exits 0 regardless of arguments (a recognized
// subcommand), "false" exits 1 (a rejected one), and a nonsense binary
// name reproduces the missing-binary startup failure.

// TestNewProbe_RecognizedSubcommand verifies that a zero exit status is
// reported as a recognized subcommand.
func TestNewProbe_RecognizedSubcommand(t *testing.T) {
	probe := NewProbe("true")

	known, err := probe(context.Background(), "run")

	require.NoError(t, err)
	assert.True(t, known)
}

// TestNewProbe_RejectedSubcommand verifies that a clean non-zero exit is
// reported as "not a subcommand" with no error — this is the normal
// negative outcome, not a failure.
func TestNewProbe_RejectedSubcommand(t *testing.T) {
	probe := NewProbe("false")

	known, err := probe(context.Background(), "bogus")

	require.NoError(t, err)
	assert.False(t, known)
}

// TestNewProbe_MissingBinary verifies that a binary that cannot be
// started surfaces as a fatal CLIError with ExitServiceUnavailable,
// distinguishable from a well-formed rejection.
func TestNewProbe_MissingBinary(t *testing.T) {
	probe := NewProbe("symbolserver-image-no-such-binary")

	known, err := probe(context.Background(), "run")

	require.Error(t, err)
	assert.False(t, known)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitServiceUnavailable, cliErr.Code)
}

// TestNewProbe_CancelledContext verifies that an already-cancelled
// context aborts the probe with an error rather than a silent negative.
func TestNewProbe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe := NewProbe("true")
	known, err := probe(ctx, "run")

	require.Error(t, err)
	assert.False(t, known)
}
