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

package semver_test

import (
	"testing"

	"go.rgst.io/monoverse/internal/semver"
	"gotest.tools/v3/assert"
)

func TestParseSemVer(t *testing.T) {
	cases := []struct {
		in   string
		want semver.SemVer
		ok   bool
	}{
		{"1.0", semver.SemVer{Major: 1, Minor: 0, Patch: 0}, true},
		{"1.2.3", semver.SemVer{Major: 1, Minor: 2, Patch: 3}, true},
		{"1.2.3-anything.goes", semver.SemVer{Major: 1, Minor: 2, Patch: 3}, true},
		{"not-a-version", semver.SemVer{}, false},
		{"", semver.SemVer{}, false},
	}

	for _, tc := range cases {
		got, ok := semver.ParseSemVer(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.DeepEqual(t, tc.want, got)
		}
	}
}

// TestGrammarRoundTripGlobal ensures that formatting then parsing a
// global tag recovers the original version with no slug.
func TestGrammarRoundTripGlobal(t *testing.T) {
	v := semver.SemVer{Major: 1, Minor: 4, Patch: 2}
	name := semver.FormatTagName("v", v, "")

	tag, ok := semver.ParseTagName("v", name)
	assert.Assert(t, ok)
	assert.Equal(t, semver.ScopeGlobal, tag.Scope)
	assert.DeepEqual(t, v, tag.SemVer)
}

// TestGrammarRoundTripProject ensures that formatting then parsing a
// project-scoped tag recovers both the version and the slug.
func TestGrammarRoundTripProject(t *testing.T) {
	v := semver.SemVer{Major: 2, Minor: 0, Patch: 0}
	name := semver.FormatTagName("v", v, "Core")

	tag, ok := semver.ParseTagName("v", name)
	assert.Assert(t, ok)
	assert.Equal(t, semver.ScopeProject, tag.Scope)
	assert.Equal(t, "core", tag.Slug)
	assert.DeepEqual(t, v, tag.SemVer)
}

func TestParseTagNameMissingPrefix(t *testing.T) {
	_, ok := semver.ParseTagName("v", "1.0.0")
	assert.Assert(t, !ok)
}

func TestParseTagNameCaseInsensitivePrefix(t *testing.T) {
	tag, ok := semver.ParseTagName("v", "V1.0.0")
	assert.Assert(t, ok)
	assert.Equal(t, semver.ScopeGlobal, tag.Scope)
}

func TestSameSeries(t *testing.T) {
	a := semver.SemVer{Major: 1, Minor: 2, Patch: 3}
	b := semver.SemVer{Major: 1, Minor: 2, Patch: 9}
	c := semver.SemVer{Major: 1, Minor: 3, Patch: 0}
	assert.Assert(t, a.SameSeries(b))
	assert.Assert(t, !a.SameSeries(c))
}

func TestCompareOrdering(t *testing.T) {
	lower := semver.SemVer{Major: 1, Minor: 0, Patch: 0}
	higher := semver.SemVer{Major: 1, Minor: 0, Patch: 1}
	assert.Assert(t, lower.LessThan(higher))
	assert.Assert(t, higher.GreaterThan(lower))
}

func TestSatisfies(t *testing.T) {
	v := semver.SemVer{Major: 1, Minor: 5, Patch: 0}
	ok, err := semver.Satisfies(v, ">=1.0.0 <2.0.0")
	assert.NilError(t, err)
	assert.Assert(t, ok)

	ok, err = semver.Satisfies(v, ">=2.0.0")
	assert.NilError(t, err)
	assert.Assert(t, !ok)
}
