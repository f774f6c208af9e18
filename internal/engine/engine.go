// Copyright (C) 2024 stencil contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package engine orchestrates the version-decision pipeline: Branch
// Classifier -> Tag Selector -> Base Version Resolver -> Change
// Detector -> Version Composer, for a single project within a
// monorepo.
package engine

import (
	"context"
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
	"go.rgst.io/monoverse/internal/baseversion"
	"go.rgst.io/monoverse/internal/branch"
	"go.rgst.io/monoverse/internal/changedetect"
	"go.rgst.io/monoverse/internal/compose"
	"go.rgst.io/monoverse/internal/logging"
	"go.rgst.io/monoverse/internal/repoadapter"
	"go.rgst.io/monoverse/internal/semver"
	"go.rgst.io/monoverse/internal/tagselect"
	"go.rgst.io/monoverse/pkg/project"
)

// Config controls the engine's behavior, mirroring the knobs the
// teacher repository's pkg/configuration exposes for stencil.yaml, but
// scoped to this engine's own decision-making.
type Config struct {
	// TagPrefix is prepended to every version tag, e.g. "v". Defaults to
	// "v" when empty.
	TagPrefix string

	// SkipTests, when true, short-circuits test-only projects to version
	// "1.0.0" without touching tags or diffs at all.
	SkipTests bool

	// SkipNonPackable, when true, short-circuits non-packable projects
	// the same way as SkipTests.
	SkipNonPackable bool

	// ForceVersion, when set, bypasses the entire pipeline and is
	// returned verbatim as the decision.
	ForceVersion string

	// Debug records that debug logging was requested. The engine does not
	// read it; pipeline messages are logged at Debug level, so their
	// visibility is set by Logger's level.
	Debug bool

	// ExtraDebug additionally appends a full go-spew dump of the
	// Composer's input to the rationale text.
	ExtraDebug bool

	Logger logging.Logger
}

func (c Config) tagPrefix() string {
	if c.TagPrefix == "" {
		return "v"
	}
	return c.TagPrefix
}

func (c Config) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Discard()
}

// DecisionInput identifies the single project being versioned and the
// monorepo it lives in.
type DecisionInput struct {
	// Project is the project being versioned.
	Project *project.Ref

	// Manifest is the full monorepo manifest Project belongs to, used to
	// resolve its dependencies for the Change Detector.
	Manifest *project.Manifest
}

// DecisionOutput is the engine's final answer for one project.
type DecisionOutput struct {
	Version   string
	Changed   bool
	Rationale string
}

// ComputeVersion runs the full pipeline for a single project against
// adapter, which must be positioned at the commit to evaluate (i.e. its
// CurrentBranch reflects the commit being versioned).
func ComputeVersion(ctx context.Context, adapter repoadapter.Adapter, in DecisionInput, cfg Config) (DecisionOutput, error) {
	log := cfg.logger()

	if cfg.ForceVersion != "" {
		log.Debug("force_version set, bypassing pipeline", "version", cfg.ForceVersion)
		return DecisionOutput{Version: cfg.ForceVersion, Changed: true, Rationale: "forced"}, nil
	}

	if (cfg.SkipTests && in.Project.IsTest) || (cfg.SkipNonPackable && !in.Project.IsPackable) {
		log.Debug("project skipped by config", "project", in.Project.Name)
		return DecisionOutput{Version: "1.0.0", Changed: false, Rationale: "skipped"}, nil
	}

	tags, err := fetchVersionTags(ctx, adapter, cfg.tagPrefix())
	if err != nil {
		return DecisionOutput{}, fmt.Errorf("enumerating tags: %w", err)
	}

	return computeWithTags(ctx, adapter, in, cfg, tags)
}

// computeWithTags runs the pipeline from branch classification onward,
// given an already-enumerated tag set. It exists so Runner can share one
// tag enumeration across every project in a manifest instead of
// re-fetching per project (spec §5).
func computeWithTags(
	ctx context.Context,
	adapter repoadapter.Adapter,
	in DecisionInput,
	cfg Config,
	tags []semver.VersionTag,
) (DecisionOutput, error) {
	log := cfg.logger()

	head, err := adapter.CurrentBranch(ctx)
	if err != nil {
		return DecisionOutput{}, fmt.Errorf("reading current branch: %w", err)
	}

	kind := branch.Classify(head.Name)
	releaseVersion, haveReleaseVersion := branch.ExtractReleaseVersion(head.Name, cfg.tagPrefix())
	log.Debug("classified branch", "name", head.Name, "kind", kind.String())

	var releaseVersionPtr *semver.SemVer
	if haveReleaseVersion {
		releaseVersionPtr = &releaseVersion
	}
	selected := tagselect.Select(tags, in.Project.Slug(), kind, releaseVersionPtr)

	globalTag := selected.Global
	globalOrigin := baseversion.OriginGlobal
	if globalTag == nil {
		synthesized := baseversion.NewDefaultGlobal()
		globalTag = &synthesized
		globalOrigin = baseversion.OriginDefaultFallback
	}
	base := baseversion.Resolve(*globalTag, globalOrigin, &selected)
	log.Debug("resolved base version", "version", base.SemVer.String(), "origin", base.Origin.String())

	byPath := in.Manifest.ByPath()
	depTags := dependencyTags(tags, in.Project, byPath)

	changeResult, err := changedetect.Detect(ctx, adapter, changedetect.Input{
		Project:        in.Project,
		AllProjects:    byPath,
		Base:           base,
		HeadCommit:     head.TipCommitID,
		DependencyTags: depTags,
	})
	if err != nil {
		log.Warn("change detection encountered partial failures", "error", err.Error())
	}

	composed := compose.Compose(compose.Input{
		Kind:           kind,
		Base:           base,
		Changed:        changeResult.Changed,
		ChangeNote:     changeResult.Rationale,
		ReleaseVersion: releaseVersionPtr,
		BranchSlug:     branch.Slug(head.Name),
		ShortHash:      head.TipCommitID,
		ExtraDebug:     cfg.ExtraDebug,
	})

	return DecisionOutput{
		Version:   composed.Version,
		Changed:   composed.Changed,
		Rationale: composed.Rationale,
	}, nil
}

// fetchVersionTags enumerates the repository's tags and interprets each
// against the version grammar, discarding tags that don't match (e.g. a
// changelog tag with a different prefix). It enumerates tags afresh on
// every call; callers that need tags for several projects in one run
// should go through Runner, which caches the result.
func fetchVersionTags(ctx context.Context, adapter repoadapter.Adapter, tagPrefix string) ([]semver.VersionTag, error) {
	rawTags, err := adapter.Tags(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]semver.VersionTag, 0, len(rawTags))
	for _, t := range rawTags {
		vt, ok := semver.ParseTagName(tagPrefix, t.Name)
		if !ok {
			continue
		}
		vt.CommitID = t.TargetCommitID
		out = append(out, vt)
	}
	return out, nil
}

// dependencyTags resolves the latest project-scoped tag for each of
// proj's direct dependencies, for the Change Detector's re-tagging rule
// (spec §4.6 rule 3). Per that rule, this uses "the same rules as §4.4
// [the Tag Selector] ... no branch filter": a bare, unfiltered selection
// against Main with no release-series restriction, and strictly the
// Project-scoped result — a dependency with only a Global tag has no
// re-tagging signal to offer here.
func dependencyTags(
	tags []semver.VersionTag,
	proj *project.Ref,
	byPath map[string]*project.Ref,
) map[string]changedetect.DependencyTag {
	out := make(map[string]changedetect.DependencyTag, len(proj.Dependencies))
	for _, depPath := range proj.Dependencies {
		dep, ok := byPath[depPath]
		if !ok {
			continue
		}

		sel := tagselect.Select(tags, dep.Slug(), branch.Main, nil)
		if sel.Project == nil {
			continue
		}
		out[depPath] = changedetect.DependencyTag{Path: depPath, CommitID: sel.Project.CommitID}
	}
	return out
}

// tagCacheKey derives a stable cache key for a (tagPrefix, repository
// state) pair, used by callers wrapping ComputeVersion across many
// projects in a single CLI invocation to avoid re-enumerating tags per
// project (spec §5's "cache scoped to one call").
func tagCacheKey(tagPrefix string, head repoadapter.BranchHead) (uint64, error) {
	return hashstructure.Hash(struct {
		TagPrefix string
		Head      repoadapter.BranchHead
	}{tagPrefix, head}, hashstructure.FormatV2, nil)
}
