package release

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/symbolserver-image/internal/recipe"
)

// Compiled-in release configuration. A release run needs no flags; the
// optional release.jsonc file in the working directory overrides
// individual values.
const (
	// DefaultRepository is the image repository all tags are pushed under.
	DefaultRepository = "getsentry/symbolserver"

	// DefaultDockerfile is the build recipe read for the version
	// declaration and handed to docker build.
	DefaultDockerfile = "Dockerfile"

	// DefaultVersionKey is the ENV key whose value is the release version.
	DefaultVersionKey = "SYMBOLSERVER_VERSION"

	// DefaultConfigFile is the optional override file. JSONC so it can
	// carry comments, like a devcontainer.json.
	DefaultConfigFile = "release.jsonc"
)

// Config holds the effective release configuration.
type Config struct {
	// Repository is the image repository name.
	Repository string

	// Dockerfile is the path to the build recipe. The docker build
	// context is the recipe's directory.
	Dockerfile string

	// VersionKey is the ENV declaration key carrying the version.
	VersionKey string

	// Aliases pins the floating alias set. nil means "derive from the
	// version" (major, major.minor, latest); a non-nil empty slice means
	// no alias pushes at all. The pointer keeps those two cases apart.
	Aliases *[]string
}

// rawConfig is the JSON shape of release.jsonc. Pointer fields
// distinguish "absent, keep the default" from an explicit value.
type rawConfig struct {
	Repository *string   `json:"repository"`
	Dockerfile *string   `json:"dockerfile"`
	VersionKey *string   `json:"versionKey"`
	Aliases    *[]string `json:"aliases"`
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Repository: DefaultRepository,
		Dockerfile: DefaultDockerfile,
		VersionKey: DefaultVersionKey,
	}
}

// LoadConfig returns the defaults overlaid with the override file at
// path, when it exists. A missing file is not an error — the defaults
// are the normal case — but a present file that does not parse is,
// since a half-applied override could push to the wrong repository.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read release config %s: %w", path, err)
	}

	// Strip comments and trailing commas before handing the bytes to
	// encoding/json.
	var raw rawConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse release config %s: %w", path, err)
	}

	if raw.Repository != nil {
		cfg.Repository = *raw.Repository
	}
	if raw.Dockerfile != nil {
		cfg.Dockerfile = *raw.Dockerfile
	}
	if raw.VersionKey != nil {
		cfg.VersionKey = *raw.VersionKey
	}
	if raw.Aliases != nil {
		aliases := append([]string(nil), (*raw.Aliases)...)
		cfg.Aliases = &aliases
	}

	return cfg, nil
}

// AliasesFor resolves the alias set for a version: the pinned list when
// the config carries one, otherwise the derived dotted prefixes plus
// "latest".
func (c *Config) AliasesFor(version string) []string {
	if c.Aliases != nil {
		return append([]string(nil), (*c.Aliases)...)
	}
	return recipe.DeriveAliases(version)
}
