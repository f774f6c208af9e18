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

package compose_test

import (
	"strings"
	"testing"

	"go.rgst.io/monoverse/internal/baseversion"
	"go.rgst.io/monoverse/internal/branch"
	"go.rgst.io/monoverse/internal/compose"
	"go.rgst.io/monoverse/internal/semver"
	"gotest.tools/v3/assert"
)

func TestComposeMainUnchanged(t *testing.T) {
	res := compose.Compose(compose.Input{
		Kind: branch.Main,
		Base: baseversion.BaseVersion{SemVer: semver.SemVer{Major: 1, Minor: 2, Patch: 3}},
	})
	assert.Equal(t, "1.2.3", res.Version)
	assert.Assert(t, !res.Changed)
}

func TestComposeMainChangedBumpsPatch(t *testing.T) {
	res := compose.Compose(compose.Input{
		Kind:       branch.Main,
		Base:       baseversion.BaseVersion{SemVer: semver.SemVer{Major: 1, Minor: 2, Patch: 3}},
		Changed:    true,
		ChangeNote: "direct change",
	})
	assert.Equal(t, "1.2.4", res.Version)
	assert.Assert(t, res.Changed)
}

func TestComposeReleaseUsesBranchSeries(t *testing.T) {
	series := semver.SemVer{Major: 2, Minor: 0}
	res := compose.Compose(compose.Input{
		Kind:           branch.Release,
		Base:           baseversion.BaseVersion{SemVer: semver.SemVer{Major: 2, Minor: 0, Patch: 5}},
		ReleaseVersion: &series,
		Changed:        true,
		ChangeNote:     "direct change",
	})
	assert.Equal(t, "2.0.6", res.Version)
}

func TestComposeReleaseFallsBackToBaseSeriesWhenNameUnparseable(t *testing.T) {
	res := compose.Compose(compose.Input{
		Kind:    branch.Release,
		Base:    baseversion.BaseVersion{SemVer: semver.SemVer{Major: 3, Minor: 1, Patch: 0}},
		Changed: false,
	})
	assert.Equal(t, "3.1.0", res.Version)
	assert.Assert(t, strings.Contains(res.Rationale, "base version's series"))
}

func TestComposeFeatureAddsSuffix(t *testing.T) {
	res := compose.Compose(compose.Input{
		Kind:       branch.Feature,
		Base:       baseversion.BaseVersion{SemVer: semver.SemVer{Major: 1, Minor: 0, Patch: 0}},
		Changed:    true,
		ChangeNote: "direct change",
		BranchSlug: "my-feature",
		ShortHash:  "abcdef1234",
	})
	assert.Equal(t, "1.0.0-my-feature.abcdef1", res.Version)
}

func TestComposeExtraDebugAppendsDump(t *testing.T) {
	res := compose.Compose(compose.Input{
		Kind:       branch.Main,
		Base:       baseversion.BaseVersion{SemVer: semver.SemVer{Major: 1}},
		ExtraDebug: true,
	})
	assert.Assert(t, strings.Contains(res.Rationale, "Input"))
}
