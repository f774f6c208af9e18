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

// Package semver implements the version grammar used by monoverse: a
// bare "major.minor[.patch]" triple, plus the two tag-name shapes used
// across a monorepo (global and project-scoped). Numeric comparison
// delegates to [github.com/Masterminds/semver/v3], the same library
// used for constraint checking elsewhere in this codebase's ancestry;
// the tag-name grammar itself has no upstream equivalent.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	mastsemver "github.com/Masterminds/semver/v3"
)

// triplePattern matches "M.m" or "M.m.p", optionally followed by a
// "-<anything>" suffix which is discarded by ParseSemVer (callers that
// care about the suffix, i.e. tag parsing, split it off first).
var triplePattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(?:-.*)?$`)

// SemVer is a major.minor.patch triple. Ordering is lexicographic over
// the triple; Compare and SameSeries route the numeric comparison
// through mastsemver.Version rather than hand-rolled integer compares,
// since Pre never participates in ordering and the bare "M.m.p" triple
// this type carries is always a valid mastsemver input.
type SemVer struct {
	Major uint64
	Minor uint64
	Patch uint64

	// Pre is an optional prerelease identifier appended as "-<Pre>", used
	// by the Composer for Feature-branch suffixes. It plays no part in
	// Compare/SameSeries, which only ever order the numeric triple.
	Pre string
}

// String formats the triple as "M.m.p", or "M.m.p-Pre" when Pre is set;
// patch is always rendered explicitly, per the grammar's serialization
// rule.
func (v SemVer) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// BumpPatch returns a copy of v with Patch incremented by one and Pre
// cleared.
func (v SemVer) BumpPatch() SemVer {
	return SemVer{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// SameSeries reports whether v and other share the same (major, minor)
// pair.
func (v SemVer) SameSeries(other SemVer) bool {
	a, b := v.triple(), other.triple()
	return a.Major() == b.Major() && a.Minor() == b.Minor()
}

// Compare returns -1, 0, or 1 depending on whether v is less than,
// equal to, or greater than other, ordering lexicographically over
// (major, minor, patch).
func (v SemVer) Compare(other SemVer) int {
	return v.triple().Compare(other.triple())
}

// LessThan reports whether v orders before other.
func (v SemVer) LessThan(other SemVer) bool { return v.Compare(other) < 0 }

// GreaterThan reports whether v orders after other.
func (v SemVer) GreaterThan(other SemVer) bool { return v.Compare(other) > 0 }

// triple converts v's numeric triple (Pre excluded) into a
// mastsemver.Version for comparison. A bare "M.m.p" string is always a
// valid mastsemver input, so the parse error is unreachable.
func (v SemVer) triple() *mastsemver.Version {
	mv, err := mastsemver.NewVersion(fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch))
	if err != nil {
		panic(fmt.Sprintf("semver: unreachable: %v", err))
	}
	return mv
}

// ParseSemVer accepts "M.m" or "M.m.p", optionally followed by a
// "-<anything>" suffix that is discarded, and returns the parsed
// triple. It returns false if s does not match the grammar.
func ParseSemVer(s string) (SemVer, bool) {
	m := triplePattern.FindStringSubmatch(s)
	if m == nil {
		return SemVer{}, false
	}

	major, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return SemVer{}, false
	}
	minor, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return SemVer{}, false
	}

	var patch uint64
	if m[3] != "" {
		patch, err = strconv.ParseUint(m[3], 10, 64)
		if err != nil {
			return SemVer{}, false
		}
	}

	return SemVer{Major: major, Minor: minor, Patch: patch}, true
}

// Satisfies reports whether v satisfies the given Masterminds/semver
// constraint expression, e.g. ">=1.0.0 <2.0.0". It's exported for
// collaborators that want full constraint syntax rather than the bare
// series/patch comparisons Compare and SameSeries perform; nothing in
// this module's own CLI or engine path needs more than those two.
func Satisfies(v SemVer, constraint string) (bool, error) {
	c, err := mastsemver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}

	return c.Check(v.triple()), nil
}

// stripPrefixCaseInsensitive removes prefix from the start of s if
// present, case-insensitively, reporting whether it was found.
func stripPrefixCaseInsensitive(s, prefix string) (string, bool) {
	if prefix == "" {
		return s, true
	}
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
