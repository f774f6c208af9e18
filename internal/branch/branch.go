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

// Package branch classifies repository branch names into the three
// kinds the version-decision engine cares about, and extracts the
// release series from a Release branch's name.
package branch

import (
	"regexp"
	"strings"

	"go.rgst.io/monoverse/internal/semver"
)

// Kind is the classification of a branch name.
type Kind int

const (
	// Main is the repository's primary branch ("main" or "master").
	Main Kind = iota
	// Release is a branch tracking a specific release series.
	Release
	// Feature is any other branch.
	Feature
)

// String implements fmt.Stringer for debug/rationale output.
func (k Kind) String() string {
	switch k {
	case Main:
		return "main"
	case Release:
		return "release"
	default:
		return "feature"
	}
}

// releasePattern matches "release/<anything>", "release-<anything>", or
// a bare "v<major>.<minor>[.<patch>]" branch name.
var releasePattern = regexp.MustCompile(`(?i)^(release/.+|release-.+|v\d+\.\d+(\.\d+)?)$`)

// Classify determines the Kind of a branch name. Classification is
// total: every non-empty string maps to exactly one Kind, and an empty
// string is treated as Feature (InvalidBranchName is not an error; it
// degrades to Feature per the engine's error-handling policy).
func Classify(name string) Kind {
	lower := strings.ToLower(name)
	if lower == "main" || lower == "master" {
		return Main
	}

	if releasePattern.MatchString(name) {
		return Release
	}

	return Feature
}

// ExtractReleaseVersion pulls the release series out of a Release
// branch's name, e.g. "release/v2.0" or "release-2.0.1" or "v2.0". It
// strips a leading "release/" or "release-" segment, then the
// configured tag prefix if present at the head of what remains, and
// finally parses the rest with semver.ParseSemVer. It returns false if
// the name doesn't contain a parseable version; callers must treat that
// as "series unknown" rather than an error (spec's Release-branch
// fallback to the base's own series).
func ExtractReleaseVersion(name, tagPrefix string) (semver.SemVer, bool) {
	rest := name
	switch {
	case strings.HasPrefix(strings.ToLower(rest), "release/"):
		rest = rest[len("release/"):]
	case strings.HasPrefix(strings.ToLower(rest), "release-"):
		rest = rest[len("release-"):]
	}

	if tagPrefix != "" && len(rest) >= len(tagPrefix) && strings.EqualFold(rest[:len(tagPrefix)], tagPrefix) {
		rest = rest[len(tagPrefix):]
	}

	return semver.ParseSemVer(rest)
}

// Slug turns a branch name into the slug used in Feature-branch version
// suffixes: "/" and "_" are replaced with "-", and the result is
// lowercased.
func Slug(name string) string {
	r := strings.NewReplacer("/", "-", "_", "-")
	return strings.ToLower(r.Replace(name))
}
