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

// Package changedetect implements the Change Detector (spec §4.6): it
// decides whether a project has changed since its base version, walking
// four ordered rules and stopping at the first that fires.
package changedetect

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.rgst.io/monoverse/internal/baseversion"
	"go.rgst.io/monoverse/internal/repoadapter"
	"go.rgst.io/monoverse/pkg/project"
)

// maxSamplePaths caps how many changed paths are quoted in a rationale
// string.
const maxSamplePaths = 3

// DependencyTag is the latest tag commit known for one of a project's
// dependencies, used by the re-tagging rule.
type DependencyTag struct {
	// Path is the dependency project's relative path.
	Path string
	// CommitID is the commit the dependency's latest project-scoped tag
	// targets. A dependency with no project-scoped tag has no entry.
	CommitID string
}

// Input bundles everything the Change Detector needs for one project.
type Input struct {
	// Project is the project being evaluated.
	Project *project.Ref

	// AllProjects is every project in the manifest, keyed by relative
	// path, used to resolve Project.Dependencies into refs.
	AllProjects map[string]*project.Ref

	// Base is the project's resolved base version (internal/baseversion).
	Base baseversion.BaseVersion

	// HeadCommit is the commit currently being evaluated.
	HeadCommit string

	// DependencyTags holds the latest tag commit for each of Project's
	// direct dependencies, keyed by dependency path.
	DependencyTags map[string]DependencyTag
}

// Result is the Change Detector's verdict.
type Result struct {
	Changed   bool
	Rationale string
}

// Detect walks the four rules in order, returning at the first one that
// fires. Per-dependency ancestry check failures (rule 3) are aggregated
// with go-multierror rather than aborting evaluation of the remaining
// dependencies or rules: a single unreachable commit shouldn't block a
// decision for the rest of the project.
func Detect(ctx context.Context, adapter repoadapter.Adapter, in Input) (Result, error) {
	if in.Base.CommitID == "" {
		return Result{Changed: true, Rationale: "no base tag exists; project considered changed by default"}, nil
	}

	changes, err := adapter.DiffPaths(ctx, in.Base.CommitID, in.HeadCommit)
	if err != nil {
		return Result{}, fmt.Errorf("diffing %s..%s: %w", in.Base.CommitID, in.HeadCommit, err)
	}

	// Rule 1: direct project change.
	if hit := pathsUnder(changes, in.Project.RelativePath); len(hit) > 0 {
		return Result{
			Changed:   true,
			Rationale: fmt.Sprintf("direct change in project: %s", sample(hit)),
		}, nil
	}

	// Rule 2: direct dependency change.
	for _, depPath := range in.Project.Dependencies {
		dep, ok := in.AllProjects[depPath]
		if !ok {
			continue
		}
		if hit := pathsUnder(changes, dep.RelativePath); len(hit) > 0 {
			return Result{
				Changed:   true,
				Rationale: fmt.Sprintf("dependency %q changed: %s", dep.Name, sample(hit)),
			}, nil
		}
	}

	// Rule 3: dependency re-tagging. A dependency whose latest
	// project-scoped tag sits on a strict descendant of our base commit
	// has been re-versioned since we last bumped, which must propagate
	// even if its tree happens to be identical to what we last saw.
	var ancestryErrs *multierror.Error
	for _, depPath := range in.Project.Dependencies {
		dep, ok := in.AllProjects[depPath]
		if !ok {
			continue
		}
		depTag, ok := in.DependencyTags[depPath]
		if !ok || depTag.CommitID == "" {
			continue
		}

		// Strictly newer means our base commit is an ancestor of the
		// dependency's tag commit, and the two commits aren't identical
		// (spec §4.6 rule 3).
		baseIsAncestor, err := adapter.IsAncestor(ctx, in.Base.CommitID, depTag.CommitID)
		if err != nil {
			ancestryErrs = multierror.Append(ancestryErrs, fmt.Errorf("dependency %q: %w", dep.Name, err))
			continue
		}
		if baseIsAncestor && depTag.CommitID != in.Base.CommitID {
			return Result{
				Changed:   true,
				Rationale: fmt.Sprintf("Dependency %s was versioned at a newer commit than the base", dep.Name),
			}, nil
		}
	}

	// Rule 4: package-lock change. packages.lock.json is NuGet's
	// dependency lock file; it lives at the project's own root, or at the
	// repository root for a project whose RelativePath is "".
	lockPath := "packages.lock.json"
	if in.Project.RelativePath != "" {
		lockPath = in.Project.RelativePath + "/" + lockPath
	}
	if hit := pathsExact(changes, []string{lockPath}); len(hit) > 0 {
		return Result{
			Changed:   true,
			Rationale: fmt.Sprintf("package lock changed: %s", sample(hit)),
		}, nil
	}

	if ancestryErrs.ErrorOrNil() != nil {
		return Result{Changed: false, Rationale: "no change detected"}, ancestryErrs
	}
	return Result{Changed: false, Rationale: "no change detected"}, nil
}

// pathsUnder returns every changed path that falls under dir, or every
// changed path if dir is "" (the monorepo root project).
func pathsUnder(changes []repoadapter.PathChange, dir string) []string {
	var out []string
	for _, c := range changes {
		if dir == "" || c.Path == dir || strings.HasPrefix(c.Path, dir+"/") {
			out = append(out, c.Path)
		}
	}
	return out
}

// pathsExact returns every changed path that exactly matches one of
// watched.
func pathsExact(changes []repoadapter.PathChange, watched []string) []string {
	set := make(map[string]bool, len(watched))
	for _, w := range watched {
		set[w] = true
	}

	var out []string
	for _, c := range changes {
		if set[c.Path] {
			out = append(out, c.Path)
		}
	}
	return out
}

func sample(paths []string) string {
	if len(paths) > maxSamplePaths {
		return strings.Join(paths[:maxSamplePaths], ", ") + fmt.Sprintf(" (+%d more)", len(paths)-maxSamplePaths)
	}
	return strings.Join(paths, ", ")
}
