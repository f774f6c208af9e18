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

// Package tagselect implements the Tag Selector component (spec §4.4):
// choosing the latest applicable global and project-scoped tags for a
// given branch context.
package tagselect

import (
	"sort"

	"go.rgst.io/monoverse/internal/branch"
	"go.rgst.io/monoverse/internal/semver"
)

// Result holds the chosen Global and Project tags. Either may be nil.
type Result struct {
	Global  *semver.VersionTag
	Project *semver.VersionTag
}

// Select chooses the latest applicable global tag and the latest
// applicable project-scoped tag for slug, out of every already-parsed
// VersionTag in the repository.
//
// On a Release branch, candidates are filtered to the release's own
// (major, minor) series when releaseVersion is known; if it could not
// be extracted from the branch name, filtering is skipped and all
// candidates are considered (spec §4.4's degenerate case).
func Select(tags []semver.VersionTag, slug string, kind branch.Kind, releaseVersion *semver.SemVer) Result {
	var globals, projects []semver.VersionTag
	for _, t := range tags {
		switch t.Scope {
		case semver.ScopeGlobal:
			globals = append(globals, t)
		case semver.ScopeProject:
			if t.Slug == slug {
				projects = append(projects, t)
			}
		}
	}

	if kind == branch.Release && releaseVersion != nil {
		globals = filterSeries(globals, *releaseVersion)
		projects = filterSeries(projects, *releaseVersion)
	}

	return Result{
		Global:  latest(globals),
		Project: latest(projects),
	}
}

// filterSeries keeps only candidates whose (major, minor) matches
// series.
func filterSeries(candidates []semver.VersionTag, series semver.SemVer) []semver.VersionTag {
	var out []semver.VersionTag
	for _, c := range candidates {
		if c.SemVer.SameSeries(series) {
			out = append(out, c)
		}
	}
	return out
}

// latest returns the highest-ordered candidate by (major, minor,
// patch), descending; ties are broken by keeping the first one
// encountered in enumeration order via a stable sort. It returns nil if
// candidates is empty.
func latest(candidates []semver.VersionTag) *semver.VersionTag {
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SemVer.GreaterThan(candidates[j].SemVer)
	})
	top := candidates[0]
	return &top
}
