// Package cli implements the cobra-based CLI for the release tool.
//
// The root command runs the whole release pipeline directly — a release
// needs no required flags or arguments, only the Dockerfile in the
// working directory — and handles global output flags and exit-code
// translation.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// Global flag variables bound to cobra persistent flags on the root
// command.
var (
	// jsonOutput switches command output to structured JSON for machine
	// consumption; the default is human-readable text.
	jsonOutput bool

	// verbose enables progress logging on stderr.
	verbose bool
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// Running it with no arguments performs a full release.
func NewRootCommand() *cobra.Command {
	flags := &releaseFlags{}

	rootCmd := &cobra.Command{
		Use:   "release",
		Short: "Build, version-tag, and publish the symbolserver image",
		Long: `release builds the symbolserver container image fresh, reads the release
version out of the Dockerfile's SYMBOLSERVER_VERSION declaration, pushes the
version tag, and then updates the floating aliases (major, major.minor,
latest) to point at the new content.

The version tag is pushed before any alias moves: a failed run never leaves
an alias pointing at content that was not fully released.`,

		// Usage on every error is noise; errors are formatted by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd.Context(), flags)
		},

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.Flags().StringVar(&flags.configPath, "config", "",
		"Path to a release.jsonc override file (default: ./release.jsonc when present)")

	return rootCmd
}

// Execute runs the root command and handles exit codes. CLIError values
// carry their own exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag. Errors go to stderr
// in both modes; stdout is reserved for successful command output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is
// enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
