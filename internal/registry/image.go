// image.go implements the three image operations of a release run:
// build, tag, push. Build and push run the docker CLI as a child
// process so their own diagnostic output reaches the operator verbatim;
// re-tagging is a local daemon call and uses the SDK.
package registry

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// Images performs image operations against the daemon behind cli.
// It satisfies the release pipeline's ImagePusher interface.
type Images struct {
	cli *Client
}

// NewImages returns an Images bound to the given client.
func NewImages(cli *Client) *Images {
	return &Images{cli: cli}
}

// Build builds the image fresh and tags it. --no-cache and --pull force
// a clean build: no reused layers, base images re-pulled, so the
// version tag always names content built from the current recipe.
//
// Build output streams straight to the terminal; on failure the docker
// CLI's own diagnostics are the error signal and the returned error
// only carries the exit classification.
func (im *Images) Build(ctx context.Context, dockerfile, contextDir, tag string) error {
	args := []string{
		"build",
		"--no-cache",
		"--pull",
		"-f", dockerfile,
		"-t", tag,
		contextDir,
	}
	if err := runDocker(ctx, args); err != nil {
		return model.WrapCLIError(
			model.ExitBuildFailed,
			fmt.Sprintf("docker build failed for %s", tag),
			err,
		)
	}
	return nil
}

// Tag points target at the image currently named by source. This is a
// local metadata operation on the daemon — nothing is transferred — so
// it goes through the SDK directly.
func (im *Images) Tag(ctx context.Context, source, target string) error {
	if err := im.cli.Inner().ImageTag(ctx, source, target); err != nil {
		return model.WrapCLIError(
			model.ExitPushFailed,
			fmt.Sprintf("failed to tag %s as %s", source, target),
			err,
		)
	}
	return nil
}

// Push publishes a tag to the remote registry. The docker CLI is used
// so the daemon's configured credential helpers handle authentication;
// this tool never sees registry credentials.
func (im *Images) Push(ctx context.Context, tag string) error {
	if err := runDocker(ctx, []string{"push", tag}); err != nil {
		return model.WrapCLIError(
			model.ExitPushFailed,
			fmt.Sprintf("docker push failed for %s", tag),
			err,
		)
	}
	return nil
}

// runDocker executes the docker CLI with both output streams attached
// to the current process, so progress and errors appear live rather
// than buffered until completion.
func runDocker(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
