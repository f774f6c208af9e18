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

package semver

import "strings"

// Scope distinguishes a Global tag (applies to the whole repository)
// from a Project-scoped tag (applies to a single project, identified by
// Slug).
type Scope int

const (
	// ScopeGlobal is a tag of the form "<prefix><semver>".
	ScopeGlobal Scope = iota
	// ScopeProject is a tag of the form "<prefix><semver>-<slug>".
	ScopeProject
)

// VersionTag is a repository tag that has been successfully
// interpreted against the version grammar.
type VersionTag struct {
	// Name is the original, unparsed tag name.
	Name string

	// SemVer is the numeric component of the tag.
	SemVer SemVer

	// CommitID is the commit the tag resolves to.
	CommitID string

	// Scope says whether this is a Global or Project-scoped tag.
	Scope Scope

	// Slug is the lowercased project slug, only set when Scope ==
	// ScopeProject.
	Slug string
}

// ParseTagName interprets name against the tag grammar, given the
// configured tag prefix (case-insensitive). It returns false if the
// prefix is absent or the remaining numeric portion doesn't parse as a
// SemVer; both are treated as "not a version tag" rather than an error,
// per the engine's graceful-degradation policy for malformed tags.
func ParseTagName(tagPrefix, name string) (VersionTag, bool) {
	rest, ok := stripPrefixCaseInsensitive(name, tagPrefix)
	if !ok {
		return VersionTag{}, false
	}

	scope := ScopeGlobal
	versionPart := rest
	slug := ""
	if idx := strings.Index(rest, "-"); idx >= 0 {
		scope = ScopeProject
		versionPart = rest[:idx]
		slug = strings.ToLower(rest[idx+1:])
	}

	sv, ok := ParseSemVer(versionPart)
	if !ok {
		return VersionTag{}, false
	}

	return VersionTag{
		Name:   name,
		SemVer: sv,
		Scope:  scope,
		Slug:   slug,
	}, true
}

// FormatTagName serializes a SemVer (and, for project-scoped tags, a
// slug) back into a tag name, inverting ParseTagName.
func FormatTagName(tagPrefix string, v SemVer, slug string) string {
	if slug == "" {
		return tagPrefix + v.String()
	}
	return tagPrefix + v.String() + "-" + strings.ToLower(slug)
}
