package recipe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// versionKey is the declaration the release pipeline looks for.
const versionKey = "SYMBOLSERVER_VERSION"

// writeRecipe drops a Dockerfile into a temp dir and returns its path.
func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Dockerfile")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestExtractVersion_SpaceForm verifies the classic "ENV KEY VALUE"
// spelling embedded in a realistic Dockerfile.
func TestExtractVersion_SpaceForm(t *testing.T) {
	path := writeRecipe(t, `FROM debian:stable-slim

ENV SYMBOLSERVER_VERSION 1.4.0
ENV SYMBOLSERVER_SYMBOL_DIR /usr/local/share/symbolserver

RUN set -x \
    && curl -sLO "https://example.invalid/symbolserver-$SYMBOLSERVER_VERSION.tar.gz"

ENTRYPOINT ["/entrypoint"]
CMD ["run"]
`)

	version, err := ExtractVersion(path, versionKey)

	require.NoError(t, err)
	assert.Equal(t, "1.4.0", version)
}

// TestExtractVersion_EqualsForm verifies the "ENV KEY=VALUE" spelling,
// including a line declaring several pairs at once.
func TestExtractVersion_EqualsForm(t *testing.T) {
	t.Run("single pair", func(t *testing.T) {
		path := writeRecipe(t, "FROM debian\nENV SYMBOLSERVER_VERSION=2.0.1\n")

		version, err := ExtractVersion(path, versionKey)

		require.NoError(t, err)
		assert.Equal(t, "2.0.1", version)
	})

	t.Run("multiple pairs on one line", func(t *testing.T) {
		path := writeRecipe(t, "ENV LANG=C.UTF-8 SYMBOLSERVER_VERSION=2.0.1 TZ=UTC\n")

		version, err := ExtractVersion(path, versionKey)

		require.NoError(t, err)
		assert.Equal(t, "2.0.1", version)
	})
}

// TestExtractVersion_FirstMatchWins verifies that only the first
// declaration counts when the key appears more than once.
func TestExtractVersion_FirstMatchWins(t *testing.T) {
	path := writeRecipe(t, "ENV SYMBOLSERVER_VERSION 1.4.0\nENV SYMBOLSERVER_VERSION 9.9.9\n")

	version, err := ExtractVersion(path, versionKey)

	require.NoError(t, err)
	assert.Equal(t, "1.4.0", version)
}

// TestExtractVersion_IgnoresOtherKeysAndCase verifies that unrelated
// ENV keys are skipped and that the ENV instruction matches
// case-insensitively, as Dockerfile instructions do.
func TestExtractVersion_IgnoresOtherKeysAndCase(t *testing.T) {
	path := writeRecipe(t, "env OTHER_VERSION 0.1\nenv SYMBOLSERVER_VERSION 1.4.0\n")

	version, err := ExtractVersion(path, versionKey)

	require.NoError(t, err)
	assert.Equal(t, "1.4.0", version)
}

// TestExtractVersion_Missing verifies the fatal configuration error when
// no declaration exists: the pipeline must not fall back to a guess.
func TestExtractVersion_Missing(t *testing.T) {
	path := writeRecipe(t, "FROM debian\nRUN true\n")

	version, err := ExtractVersion(path, versionKey)

	require.Error(t, err)
	assert.Empty(t, version)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitVersionNotFound, cliErr.Code)
}

// TestExtractVersion_MalformedToken verifies that a declaration whose
// value fails the tag syntax rules is rejected rather than pushed as a
// broken tag.
func TestExtractVersion_MalformedToken(t *testing.T) {
	path := writeRecipe(t, "ENV SYMBOLSERVER_VERSION=repo:1.4.0\n")

	_, err := ExtractVersion(path, versionKey)

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitVersionNotFound, cliErr.Code)
}

// TestExtractVersion_FileMissing verifies the error path for an absent
// recipe file.
func TestExtractVersion_FileMissing(t *testing.T) {
	_, err := ExtractVersion(filepath.Join(t.TempDir(), "Dockerfile"), versionKey)

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitVersionNotFound, cliErr.Code)
}
