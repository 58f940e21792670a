// types.go defines the domain types for the entrypoint dispatcher and the
// release pipeline. Everything here is an in-memory value computed once per
// run; nothing is persisted.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// InvocationMode classifies how the container was invoked, derived once
// per run from the raw argument vector. The mode decides whether the
// service binary name is prepended and whether the init/privilege-drop
// wrappers are applied.
type InvocationMode string

const (
	// ModeFlagLed indicates the first argument began with a flag marker
	// (leading dash), e.g. "entrypoint --config=x run". The service binary
	// name is prepended to the vector.
	ModeFlagLed InvocationMode = "flag-led"

	// ModeKnownSubcommand indicates the first argument was recognized as a
	// subcommand of the service binary (probe exited 0). The service binary
	// name is prepended to the vector.
	ModeKnownSubcommand InvocationMode = "known-subcommand"

	// ModeArbitraryCommand indicates the arguments name an unrelated
	// command (e.g. a debugging shell). The vector passes through
	// completely unmodified and unwrapped.
	ModeArbitraryCommand InvocationMode = "arbitrary-command"
)

// String returns the string representation of InvocationMode.
// This method satisfies the fmt.Stringer interface.
func (m InvocationMode) String() string {
	return string(m)
}

// IsValid checks whether the InvocationMode value is one of the
// predefined valid modes.
func (m InvocationMode) IsValid() bool {
	switch m {
	case ModeFlagLed, ModeKnownSubcommand, ModeArbitraryCommand:
		return true
	default:
		return false
	}
}

// ParseInvocationMode converts a string to an InvocationMode.
// Returns an error if the string does not match any valid mode.
func ParseInvocationMode(s string) (InvocationMode, error) {
	mode := InvocationMode(strings.ToLower(s))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid invocation mode: %q (valid: flag-led, known-subcommand, arbitrary-command)", s)
	}
	return mode, nil
}

// ExecChain is the final command vector the dispatcher hands to the exec
// boundary. It is built incrementally by the dispatch algorithm and must
// be treated as immutable once execution begins — the process image is
// replaced with exactly this vector.
type ExecChain []string

// Argv0 returns the program that will become process 1 after exec,
// or an empty string for an empty chain.
func (c ExecChain) Argv0() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// String returns the chain as a single shell-style line, which is the
// form used in verbose logging and error messages.
func (c ExecChain) String() string {
	return strings.Join(c, " ")
}

// Identity is a snapshot of the effective identity of the running process,
// taken once before the dispatch decision. Passing it as an explicit value
// keeps the decision logic pure and testable without privilege escalation.
type Identity struct {
	// UID is the effective user id of the process.
	UID int
}

// IsRoot reports whether the identity is the privileged root identity.
// Only a root process performs the data-directory preparation and the
// privilege drop.
func (i Identity) IsRoot() bool {
	return i.UID == 0
}

// versionRegex validates version tokens. The charset matches what a Docker
// image tag accepts: it must start with an alphanumeric or underscore and
// may continue with alphanumerics, underscores, dots, and hyphens.
var versionRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)

// ValidateVersion checks that a version token extracted from the build
// recipe is usable as an image tag: non-empty, a single bare token with
// no whitespace, and within Docker's 128-character tag limit.
func ValidateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("version must not be empty")
	}
	if len(version) > 128 {
		return fmt.Errorf("version %q exceeds the 128 character tag limit", version)
	}
	if !versionRegex.MatchString(version) {
		return fmt.Errorf("invalid version %q: must be a bare token of alphanumerics, underscores, dots, and hyphens", version)
	}
	return nil
}

// Release describes one completed (or planned) release: the authoritative
// version tag plus the ordered floating aliases that follow it.
type Release struct {
	// Repository is the image repository name, e.g. "getsentry/symbolserver".
	Repository string `json:"repository"`

	// Version is the version token extracted from the build recipe.
	// It is the authoritative, content-addressed release point.
	Version string `json:"version"`

	// Aliases is the ordered set of floating tags (e.g. "1", "1.4",
	// "latest") that point at the version tag's content after a
	// successful release. May be empty.
	Aliases []string `json:"aliases,omitempty"`
}

// VersionRef returns the fully qualified version tag, "repository:version".
func (r *Release) VersionRef() string {
	return r.Repository + ":" + r.Version
}

// AliasRef returns the fully qualified tag for a single alias.
func (r *Release) AliasRef(alias string) string {
	return r.Repository + ":" + alias
}

// AliasRefs returns the fully qualified alias tags in configured order.
func (r *Release) AliasRefs() []string {
	refs := make([]string, 0, len(r.Aliases))
	for _, alias := range r.Aliases {
		refs = append(refs, r.AliasRef(alias))
	}
	return refs
}

// Validate checks the release for structural problems before any build
// or push is attempted: the repository must be set and every tag token
// must pass the same syntax rules as the version.
func (r *Release) Validate() error {
	if r.Repository == "" {
		return fmt.Errorf("release: repository must not be empty")
	}
	if err := ValidateVersion(r.Version); err != nil {
		return fmt.Errorf("release: %w", err)
	}
	for _, alias := range r.Aliases {
		if err := ValidateVersion(alias); err != nil {
			return fmt.Errorf("release: alias %q: %w", alias, err)
		}
	}
	return nil
}

// ExitCode defines the CLI exit codes shared by both binaries.
// These codes allow scripts and CI systems to programmatically determine
// the outcome of a run.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitVersionNotFound indicates the build recipe contains no usable
	// version declaration.
	ExitVersionNotFound ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitBuildFailed indicates the image build failed.
	ExitBuildFailed ExitCode = 4

	// ExitPushFailed indicates a tag or push to the registry failed.
	ExitPushFailed ExitCode = 5

	// ExitPrivilegeSetup indicates the data-directory preparation under
	// root identity failed (creation or ownership change).
	ExitPrivilegeSetup ExitCode = 6

	// ExitServiceUnavailable indicates the service binary could not be
	// invoked at all (missing or not executable).
	ExitServiceUnavailable ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
