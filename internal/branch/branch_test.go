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

package branch_test

import (
	"testing"

	"go.rgst.io/monoverse/internal/branch"
	"go.rgst.io/monoverse/internal/semver"
	"gotest.tools/v3/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want branch.Kind
	}{
		{"main", branch.Main},
		{"Master", branch.Main},
		{"MAIN", branch.Main},
		{"release/v2.0", branch.Release},
		{"release-2.0", branch.Release},
		{"v2.0", branch.Release},
		{"v2.0.1", branch.Release},
		{"feature/data-improvements", branch.Feature},
		{"random-topic-branch", branch.Feature},
		{"", branch.Feature},
	}

	for _, tc := range cases {
		got := branch.Classify(tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

// TestClassificationTotality covers the main/master half of the
// classification property: main/master in any case are always Main.
// The other half, that every string maps to exactly one Kind, holds by
// Classify's signature.
func TestClassificationTotality(t *testing.T) {
	for _, name := range []string{"MAIN", "main", "Master", "MASTER"} {
		assert.Equal(t, branch.Main, branch.Classify(name))
	}
}

func TestExtractReleaseVersion(t *testing.T) {
	cases := []struct {
		name string
		want semver.SemVer
		ok   bool
	}{
		{"release/v2.0", semver.SemVer{Major: 2, Minor: 0}, true},
		{"release-2.0.1", semver.SemVer{Major: 2, Minor: 0, Patch: 1}, true},
		{"v2.0", semver.SemVer{Major: 2, Minor: 0}, true},
		{"release/not-a-version", semver.SemVer{}, false},
	}

	for _, tc := range cases {
		got, ok := branch.ExtractReleaseVersion(tc.name, "v")
		assert.Equal(t, tc.ok, ok, tc.name)
		if tc.ok {
			assert.DeepEqual(t, tc.want, got)
		}
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "feature-data-improvements", branch.Slug("feature/data-improvements"))
	assert.Equal(t, "jane-doe-fix-bug", branch.Slug("jane_doe/fix_bug"))
}
