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

// Package baseversion implements the Base Version Resolver (spec §4.5):
// combining the selected Global and Project tags into the effective
// base a project should bump from.
package baseversion

import (
	"go.rgst.io/monoverse/internal/semver"
	"go.rgst.io/monoverse/internal/tagselect"
)

// Origin records which source a BaseVersion came from.
type Origin int

const (
	// OriginGlobal means the base came from the repository's latest
	// global tag.
	OriginGlobal Origin = iota
	// OriginProject means the base came from a project-scoped tag within
	// the global tag's series.
	OriginProject
	// OriginDefaultFallback means no global tag exists at all, and the
	// engine synthesized the default base.
	OriginDefaultFallback
)

// String implements fmt.Stringer for rationale text.
func (o Origin) String() string {
	switch o {
	case OriginGlobal:
		return "global tag"
	case OriginProject:
		return "project tag"
	default:
		return "default fallback"
	}
}

// DefaultBase is the synthesized base used when no Global tag exists in
// the repository at all.
var DefaultBase = semver.SemVer{Major: 0, Minor: 1, Patch: 0}

// BaseVersion is the effective version a project should bump from.
type BaseVersion struct {
	SemVer semver.SemVer

	// CommitID is the commit the chosen tag targets. It's empty when
	// Origin is OriginDefaultFallback, since there is no tag to anchor
	// change detection to.
	CommitID string

	Origin Origin
}

// Resolve implements spec §4.5: a project-scoped tag is chosen as the
// base only when its (major, minor) matches the global tag's; otherwise
// (including when there is no project tag, or it belongs to a stale
// series) the global tag — real or synthesized default — is used.
//
// global is never nil: if the repository has no Global tag at all the
// caller is expected to have already synthesized one with Origin ==
// OriginDefaultFallback and CommitID == "" (see NewDefaultGlobal).
func Resolve(global semver.VersionTag, globalOrigin Origin, project *tagselect.Result) BaseVersion {
	if project != nil && project.Project != nil && project.Project.SemVer.SameSeries(global.SemVer) {
		return BaseVersion{
			SemVer:   project.Project.SemVer,
			CommitID: project.Project.CommitID,
			Origin:   OriginProject,
		}
	}

	return BaseVersion{
		SemVer:   global.SemVer,
		CommitID: global.CommitID,
		Origin:   globalOrigin,
	}
}

// NewDefaultGlobal synthesizes the Global tag substitute used when the
// repository has no global tag at all (spec §4.4): version 0.1.0, no
// commit, origin DefaultFallback.
func NewDefaultGlobal() semver.VersionTag {
	return semver.VersionTag{
		SemVer: DefaultBase,
		Scope:  semver.ScopeGlobal,
	}
}
