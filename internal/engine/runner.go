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

package engine

import (
	"context"
	"fmt"
	"sync"

	"go.rgst.io/monoverse/internal/repoadapter"
	"go.rgst.io/monoverse/internal/semver"
	"go.rgst.io/monoverse/pkg/project"
)

// Runner evaluates every project in a manifest against one repository,
// reusing a single tag enumeration across all of them. This is the
// entry point the CLI's "report" verb drives: one Runner per invocation,
// one ComputeForProject call per project in the manifest.
type Runner struct {
	Adapter  repoadapter.Adapter
	Manifest *project.Manifest
	Config   Config

	mu       sync.Mutex
	cacheKey uint64
	cached   []semver.VersionTag
	cachedOK bool
}

// ComputeForProject runs the pipeline for a single project, reusing the
// tag enumeration cached on r when the repository's current branch
// hasn't changed since the previous call (spec §5: the cache is scoped
// to one report invocation, not persisted across runs).
func (r *Runner) ComputeForProject(ctx context.Context, proj *project.Ref) (DecisionOutput, error) {
	if r.Config.ForceVersion != "" {
		return ComputeVersion(ctx, r.Adapter, DecisionInput{Project: proj, Manifest: r.Manifest}, r.Config)
	}
	if (r.Config.SkipTests && proj.IsTest) || (r.Config.SkipNonPackable && !proj.IsPackable) {
		return ComputeVersion(ctx, r.Adapter, DecisionInput{Project: proj, Manifest: r.Manifest}, r.Config)
	}

	tags, err := r.tagsCached(ctx)
	if err != nil {
		return DecisionOutput{}, err
	}

	return computeWithTags(ctx, r.Adapter, DecisionInput{Project: proj, Manifest: r.Manifest}, r.Config, tags)
}

// tagsCached returns the repository's version tags, enumerating and
// caching them on first use within this Runner's lifetime and returning
// the cached slice for every subsequent call, keyed by a hashstructure
// hash of (tag prefix, current branch head) so a Runner reused across a
// branch switch doesn't serve stale results.
func (r *Runner) tagsCached(ctx context.Context) ([]semver.VersionTag, error) {
	head, err := r.Adapter.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading current branch: %w", err)
	}

	key, err := tagCacheKey(r.Config.tagPrefix(), head)
	if err != nil {
		return nil, fmt.Errorf("computing tag cache key: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cachedOK && r.cacheKey == key {
		return r.cached, nil
	}

	tags, err := fetchVersionTags(ctx, r.Adapter, r.Config.tagPrefix())
	if err != nil {
		return nil, err
	}

	r.cacheKey = key
	r.cached = tags
	r.cachedOK = true
	return tags, nil
}
