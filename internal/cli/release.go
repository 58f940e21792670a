// release.go implements the release action behind the root command:
// load configuration, verify the Docker daemon, run the pipeline, and
// report the published tags.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
	"github.com/mmr-tortoise/symbolserver-image/internal/registry"
	"github.com/mmr-tortoise/symbolserver-image/internal/release"
)

// releaseFlags holds the flag values for the release run.
type releaseFlags struct {
	// configPath points at an explicit release.jsonc. Empty means the
	// default file in the working directory, which may be absent.
	configPath string
}

// runRelease is the main logic function for a release run.
func runRelease(ctx context.Context, flags *releaseFlags) error {
	// Step 1: resolve configuration (compiled-in defaults plus the
	// optional override file).
	configPath := flags.configPath
	if configPath == "" {
		configPath = release.DefaultConfigFile
	}
	cfg, err := release.LoadConfig(configPath)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "release configuration", err)
	}
	VerboseLog("Releasing %s from %s", cfg.Repository, cfg.Dockerfile)

	// Step 2: connect to Docker and verify the daemon is available
	// before any build work starts.
	cli, err := registry.NewClient()
	if err != nil {
		return err // NewClient already returns CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	VerboseLog("Connected to Docker daemon")

	// Step 3: run the sequential pipeline.
	pipeline := &release.Pipeline{
		Config: cfg,
		Images: registry.NewImages(cli),
		Log:    VerboseLog,
	}
	rel, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	// Step 4: report the published tags.
	printReleaseResult(rel)
	return nil
}

// printReleaseResult outputs the released tags in text or JSON format,
// depending on the global --json flag.
func printReleaseResult(rel *model.Release) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(rel, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Print(formatReleaseText(rel))
}

// formatReleaseText renders the human-readable release summary: the
// version tag first, then each alias that now points at it.
func formatReleaseText(rel *model.Release) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Released %s\n", rel.VersionRef())
	for _, ref := range rel.AliasRefs() {
		fmt.Fprintf(&sb, "  -> %s\n", ref)
	}
	return sb.String()
}
