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

// Package compose implements the Version Composer (spec §4.7): turning
// a base version, a branch classification, and a change verdict into
// the final version string.
package compose

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"go.rgst.io/monoverse/internal/baseversion"
	"go.rgst.io/monoverse/internal/branch"
	"go.rgst.io/monoverse/internal/semver"
)

// Input bundles everything the Composer needs to produce a version.
type Input struct {
	Kind       branch.Kind
	Base       baseversion.BaseVersion
	Changed    bool
	ChangeNote string

	// ReleaseVersion is the (major, minor) extracted from a Release
	// branch's name, if any (see branch.ExtractReleaseVersion).
	ReleaseVersion *semver.SemVer

	// BranchSlug and ShortHash feed the Feature-branch suffix
	// "-<slug>.<hash>".
	BranchSlug string
	ShortHash  string

	// ExtraDebug requests a verbose go-spew dump of the input appended to
	// the rationale, for the CLI's --extra-debug flag.
	ExtraDebug bool
}

// Result is the Composer's final verdict.
type Result struct {
	Version   string
	Changed   bool
	Rationale string
}

// Compose implements the Main/Release/Feature × changed/unchanged table
// from spec §4.7.
func Compose(in Input) Result {
	var version semver.SemVer
	var rationale string

	switch in.Kind {
	case branch.Main:
		if in.Changed {
			version = in.Base.SemVer.BumpPatch()
			rationale = fmt.Sprintf("main branch, changed (%s): bumped patch from %s", in.ChangeNote, in.Base.SemVer)
		} else {
			version = in.Base.SemVer
			rationale = fmt.Sprintf("main branch, unchanged: reused base version %s (%s)", in.Base.SemVer, in.Base.Origin)
		}

	case branch.Release:
		// M.m always comes from the release branch name when parseable
		// (composer is total, so it falls back to the base's own M.m
		// otherwise); p always comes from the base, bumped when changed.
		// This sourcing holds regardless of the changed flag, per spec
		// §4.7's Release row.
		major, minor := in.Base.SemVer.Major, in.Base.SemVer.Minor
		seriesNote := "base version's series"
		if in.ReleaseVersion != nil {
			major, minor = in.ReleaseVersion.Major, in.ReleaseVersion.Minor
			seriesNote = "branch name"
		}

		patch := in.Base.SemVer.Patch
		if in.Changed {
			patch++
			rationale = fmt.Sprintf("release branch (series from %s), changed (%s): bumped patch from %s",
				seriesNote, in.ChangeNote, in.Base.SemVer)
		} else {
			rationale = fmt.Sprintf("release branch (series from %s), unchanged: reused base patch from %s",
				seriesNote, in.Base.SemVer)
		}
		version = semver.SemVer{Major: major, Minor: minor, Patch: patch}

	case branch.Feature:
		// A Feature branch never bumps the numeric triple: it carries the
		// base version forward verbatim and, when changed, appends a
		// "-<slug>.<hash>" identifier rather than advancing patch (spec
		// §8's "feature-branch stability when unchanged" property, and its
		// scenario 3, both require the base's own M.m.p to show through).
		version = in.Base.SemVer
		if in.Changed {
			version.Pre = featureSuffix(in.BranchSlug, in.ShortHash)
			rationale = fmt.Sprintf("feature branch, changed (%s): tagged %s off base %s",
				in.ChangeNote, version, in.Base.SemVer)
		} else {
			rationale = fmt.Sprintf("feature branch, unchanged: reused base version %s with no suffix", in.Base.SemVer)
		}
	}

	result := Result{
		Version:   version.String(),
		Changed:   in.Changed,
		Rationale: rationale,
	}

	if in.ExtraDebug {
		result.Rationale += "\n" + spew.Sdump(in)
	}

	return result
}

// featureSuffix builds the "<slug>.<hash>" prerelease identifier used
// on Feature-branch versions; SemVer.String renders it after a "-". hash falls back to "0000000" when no
// commit id is available (spec §4.7).
func featureSuffix(slug, hash string) string {
	if hash == "" {
		hash = "0000000"
	}
	if len(hash) > 7 {
		hash = hash[:7]
	}
	return fmt.Sprintf("%s.%s", slug, hash)
}
