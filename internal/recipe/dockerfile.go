package recipe

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// ExtractVersion scans the build recipe at path for the first ENV
// declaration of the given key and returns its value token. Both
// Dockerfile ENV spellings are accepted:
//
//	ENV SYMBOLSERVER_VERSION 1.4.0
//	ENV SYMBOLSERVER_VERSION=1.4.0
//
// The first matching line wins. The extracted token must pass the
// version syntax rules (bare token, tag-safe charset). A recipe with no
// matching declaration is a fatal configuration error with
// ExitVersionNotFound — the pipeline must not guess a version.
func ExtractVersion(path, key string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", model.WrapCLIError(
			model.ExitVersionNotFound,
			fmt.Sprintf("cannot read build recipe %s", path),
			err,
		)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if value, ok := matchEnvLine(scanner.Text(), key); ok {
			if err := model.ValidateVersion(value); err != nil {
				return "", model.WrapCLIError(
					model.ExitVersionNotFound,
					fmt.Sprintf("malformed %s declaration in %s", key, path),
					err,
				)
			}
			return value, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", model.WrapCLIError(
			model.ExitVersionNotFound,
			fmt.Sprintf("failed to scan build recipe %s", path),
			err,
		)
	}

	return "", model.NewCLIError(
		model.ExitVersionNotFound,
		fmt.Sprintf("no %q declaration found in %s", key, path),
	)
}

// matchEnvLine checks whether a single recipe line declares key via an
// ENV instruction and returns the declared value. Dockerfile
// instructions are case-insensitive, so "env" matches too.
func matchEnvLine(line, key string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "ENV") {
		return "", false
	}

	// Spelling 1: "ENV KEY VALUE". Extra trailing tokens are ignored,
	// matching how the original release script read only the value field.
	if fields[1] == key {
		if len(fields) < 3 {
			return "", false
		}
		return fields[2], true
	}

	// Spelling 2: "ENV KEY=VALUE" (possibly among several pairs).
	for _, field := range fields[1:] {
		k, v, ok := strings.Cut(field, "=")
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}
