package release

import (
	"context"
	"path/filepath"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
	"github.com/mmr-tortoise/symbolserver-image/internal/recipe"
)

// ImagePusher is the registry capability the pipeline runs against.
// The production implementation is registry.Images; tests substitute a
// recording fake.
type ImagePusher interface {
	// Build builds the recipe fresh and applies tag to the result.
	Build(ctx context.Context, dockerfile, contextDir, tag string) error

	// Tag points target at the image currently named by source.
	Tag(ctx context.Context, source, target string) error

	// Push publishes tag to the remote registry.
	Push(ctx context.Context, tag string) error
}

// Pipeline runs one release: a strictly sequential chain of external
// operations with no retries and no rollback.
type Pipeline struct {
	// Config is the effective release configuration.
	Config *Config

	// Images performs the build/tag/push operations.
	Images ImagePusher

	// Log receives progress lines. May be nil.
	Log func(format string, args ...interface{})
}

// Run executes the release steps in order:
//
//  1. Extract the version token from the build recipe.
//  2. Build the image fresh and tag it repository:version.
//  3. Push the version tag — the authoritative release point.
//  4. For each alias in order: re-tag and push repository:alias.
//
// Each step must complete before the next starts. The first failure
// aborts the run; aliases already pushed stay updated (the registry has
// no transactional multi-tag update to roll back with), and the
// returned error makes the partial state visible to the caller.
//
// On success the returned Release names the version and every alias,
// all pointing at byte-identical image content.
func (p *Pipeline) Run(ctx context.Context) (*model.Release, error) {
	// Step 1: the recipe is the single source of truth for the version.
	version, err := recipe.ExtractVersion(p.Config.Dockerfile, p.Config.VersionKey)
	if err != nil {
		return nil, err
	}

	rel := &model.Release{
		Repository: p.Config.Repository,
		Version:    version,
		Aliases:    p.Config.AliasesFor(version),
	}
	if err := rel.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid release configuration", err)
	}

	// Step 2: clean build, tagged with the unique version.
	contextDir := filepath.Dir(p.Config.Dockerfile)
	p.logf("Building %s from %s", rel.VersionRef(), p.Config.Dockerfile)
	if err := p.Images.Build(ctx, p.Config.Dockerfile, contextDir, rel.VersionRef()); err != nil {
		return nil, err
	}

	// Step 3: the version push. Until this succeeds, no alias moves.
	p.logf("Pushing %s", rel.VersionRef())
	if err := p.Images.Push(ctx, rel.VersionRef()); err != nil {
		return nil, err
	}

	// Step 4: float the aliases onto the new content, in configured
	// order. A failure here leaves earlier aliases updated and ends the
	// run with an error.
	for _, alias := range rel.Aliases {
		aliasRef := rel.AliasRef(alias)
		p.logf("Tagging %s as %s", rel.VersionRef(), aliasRef)
		if err := p.Images.Tag(ctx, rel.VersionRef(), aliasRef); err != nil {
			return nil, err
		}
		p.logf("Pushing %s", aliasRef)
		if err := p.Images.Push(ctx, aliasRef); err != nil {
			return nil, err
		}
	}

	return rel, nil
}

// logf forwards to the configured logger, if any.
func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Log != nil {
		p.Log(format, args...)
	}
}
