package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// fakeImages is a recording ImagePusher. Every call appends a
// human-readable step to ops, and the fail* fields inject a failure at
// a chosen point so the tests can observe what the pipeline does and
// does not run afterwards.
type fakeImages struct {
	ops []string

	failBuild   bool
	failPushTag string // push of this exact tag fails
	failTagFor  string // tagging to this exact target fails
}

func (f *fakeImages) Build(ctx context.Context, dockerfile, contextDir, tag string) error {
	f.ops = append(f.ops, "build "+tag)
	if f.failBuild {
		return model.NewCLIError(model.ExitBuildFailed, "docker build failed for "+tag)
	}
	return nil
}

func (f *fakeImages) Tag(ctx context.Context, source, target string) error {
	f.ops = append(f.ops, fmt.Sprintf("tag %s %s", source, target))
	if target == f.failTagFor {
		return model.NewCLIError(model.ExitPushFailed, "failed to tag "+target)
	}
	return nil
}

func (f *fakeImages) Push(ctx context.Context, tag string) error {
	f.ops = append(f.ops, "push "+tag)
	if tag == f.failPushTag {
		return model.NewCLIError(model.ExitPushFailed, "docker push failed for "+tag)
	}
	return nil
}

// newTestPipeline builds a pipeline over a temp-dir Dockerfile
// declaring the given version line, wired to the provided fake.
func newTestPipeline(t *testing.T, images *fakeImages, dockerfileContent string) *Pipeline {
	t.Helper()
	dockerfile := filepath.Join(t.TempDir(), "Dockerfile")
	require.NoError(t, os.WriteFile(dockerfile, []byte(dockerfileContent), 0o644))

	cfg := DefaultConfig()
	cfg.Repository = "example/symbolserver"
	cfg.Dockerfile = dockerfile

	return &Pipeline{Config: cfg, Images: images}
}

// TestPipeline_FullRelease verifies the complete happy path for the
// canonical example: version 1.4.0 builds and pushes the version tag,
// then tags and pushes 1, 1.4, and latest, strictly in that order.
func TestPipeline_FullRelease(t *testing.T) {
	images := &fakeImages{}
	p := newTestPipeline(t, images, "ENV SYMBOLSERVER_VERSION 1.4.0\n")

	rel, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "1.4.0", rel.Version)
	assert.Equal(t, []string{"1", "1.4", "latest"}, rel.Aliases)

	// The exact operation sequence is the contract: version push first,
	// then per alias tag-then-push in configured order.
	assert.Equal(t, []string{
		"build example/symbolserver:1.4.0",
		"push example/symbolserver:1.4.0",
		"tag example/symbolserver:1.4.0 example/symbolserver:1",
		"push example/symbolserver:1",
		"tag example/symbolserver:1.4.0 example/symbolserver:1.4",
		"push example/symbolserver:1.4",
		"tag example/symbolserver:1.4.0 example/symbolserver:latest",
		"push example/symbolserver:latest",
	}, images.ops)
}

// TestPipeline_MissingVersionAbortsBeforeBuild verifies the
// ConfigurationError path: a recipe without the version declaration
// fails before any external operation runs.
func TestPipeline_MissingVersionAbortsBeforeBuild(t *testing.T) {
	images := &fakeImages{}
	p := newTestPipeline(t, images, "FROM debian\n")

	rel, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, rel)
	assert.Empty(t, images.ops, "no build or push may happen without a version")

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitVersionNotFound, cliErr.Code)
}

// TestPipeline_BuildFailureStopsRun verifies that a failed build aborts
// before the version push.
func TestPipeline_BuildFailureStopsRun(t *testing.T) {
	images := &fakeImages{failBuild: true}
	p := newTestPipeline(t, images, "ENV SYMBOLSERVER_VERSION 1.4.0\n")

	rel, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, rel)
	assert.Equal(t, []string{"build example/symbolserver:1.4.0"}, images.ops)
}

// TestPipeline_VersionPushFailureLeavesAliasesUntouched verifies the
// authoritative-release-point rule: when the version push fails, no
// alias is tagged or pushed.
func TestPipeline_VersionPushFailureLeavesAliasesUntouched(t *testing.T) {
	images := &fakeImages{failPushTag: "example/symbolserver:1.4.0"}
	p := newTestPipeline(t, images, "ENV SYMBOLSERVER_VERSION 1.4.0\n")

	rel, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, rel)
	assert.Equal(t, []string{
		"build example/symbolserver:1.4.0",
		"push example/symbolserver:1.4.0",
	}, images.ops)
}

// TestPipeline_AliasPushFailureKeepsEarlierAliases verifies the partial
// failure semantics: a failure on the second alias ends the run with an
// error, but the first alias was already pushed and is not rolled back,
// and the third alias is never attempted.
func TestPipeline_AliasPushFailureKeepsEarlierAliases(t *testing.T) {
	images := &fakeImages{failPushTag: "example/symbolserver:1.4"}
	p := newTestPipeline(t, images, "ENV SYMBOLSERVER_VERSION 1.4.0\n")

	rel, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, rel)
	assert.Equal(t, []string{
		"build example/symbolserver:1.4.0",
		"push example/symbolserver:1.4.0",
		"tag example/symbolserver:1.4.0 example/symbolserver:1",
		"push example/symbolserver:1",
		"tag example/symbolserver:1.4.0 example/symbolserver:1.4",
		"push example/symbolserver:1.4",
	}, images.ops)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitPushFailed, cliErr.Code)
}

// TestPipeline_EmptyAliasSet verifies the boundary: a pinned empty
// alias set produces exactly one push (the version tag) and nothing else.
func TestPipeline_EmptyAliasSet(t *testing.T) {
	images := &fakeImages{}
	p := newTestPipeline(t, images, "ENV SYMBOLSERVER_VERSION 1.4.0\n")
	empty := []string{}
	p.Config.Aliases = &empty

	rel, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rel.Aliases)
	assert.Equal(t, []string{
		"build example/symbolserver:1.4.0",
		"push example/symbolserver:1.4.0",
	}, images.ops)
}

// TestPipeline_ContextDirFollowsDockerfile verifies that the build
// context is the recipe's directory, so a recipe outside the working
// directory builds against its own tree.
func TestPipeline_ContextDirFollowsDockerfile(t *testing.T) {
	var gotContext string
	images := &contextCapture{dest: &gotContext}

	dir := t.TempDir()
	dockerfile := filepath.Join(dir, "Dockerfile")
	require.NoError(t, os.WriteFile(dockerfile, []byte("ENV SYMBOLSERVER_VERSION 1.4.0\n"), 0o644))

	cfg := DefaultConfig()
	cfg.Dockerfile = dockerfile
	empty := []string{}
	cfg.Aliases = &empty
	p := &Pipeline{Config: cfg, Images: images}

	_, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, dir, gotContext)
}

// contextCapture is an ImagePusher that records the build context
// directory and succeeds at everything.
type contextCapture struct {
	dest *string
}

func (c *contextCapture) Build(ctx context.Context, dockerfile, contextDir, tag string) error {
	*c.dest = contextDir
	return nil
}

func (c *contextCapture) Tag(ctx context.Context, source, target string) error { return nil }

func (c *contextCapture) Push(ctx context.Context, tag string) error { return nil }
