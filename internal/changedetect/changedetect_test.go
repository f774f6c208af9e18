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

package changedetect_test

import (
	"context"
	"testing"

	"go.rgst.io/monoverse/internal/baseversion"
	"go.rgst.io/monoverse/internal/changedetect"
	"go.rgst.io/monoverse/internal/repoadapter"
	"go.rgst.io/monoverse/pkg/project"
	"gotest.tools/v3/assert"
)

// fakeAdapter is a minimal in-memory repoadapter.Adapter double used to
// exercise the Change Detector's rules in isolation.
type fakeAdapter struct {
	diffs      map[string][]repoadapter.PathChange
	ancestorOf map[string]map[string]bool
}

func (f *fakeAdapter) CurrentBranch(context.Context) (repoadapter.BranchHead, error) {
	return repoadapter.BranchHead{}, nil
}

func (f *fakeAdapter) Tags(context.Context) ([]repoadapter.Tag, error) { return nil, nil }

func (f *fakeAdapter) DiffPaths(_ context.Context, from, to string) ([]repoadapter.PathChange, error) {
	return f.diffs[from+".."+to], nil
}

func (f *fakeAdapter) ReadBlob(context.Context, string, string) ([]byte, error) { return nil, nil }

func (f *fakeAdapter) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	return f.ancestorOf[ancestor][descendant], nil
}

func baseProjects() (*project.Ref, map[string]*project.Ref) {
	core := &project.Ref{Name: "core", RelativePath: "core"}
	data := &project.Ref{Name: "data", RelativePath: "data", Dependencies: []string{"core"}}
	return data, map[string]*project.Ref{"core": core, "data": data}
}

func TestDetectNoBaseCommitAlwaysChanged(t *testing.T) {
	proj, all := baseProjects()
	res, err := changedetect.Detect(context.Background(), &fakeAdapter{}, changedetect.Input{
		Project:     proj,
		AllProjects: all,
		Base:        baseversion.BaseVersion{Origin: baseversion.OriginDefaultFallback},
		HeadCommit:  "head",
	})
	assert.NilError(t, err)
	assert.Assert(t, res.Changed)
}

func TestDetectDirectProjectChange(t *testing.T) {
	proj, all := baseProjects()
	adapter := &fakeAdapter{diffs: map[string][]repoadapter.PathChange{
		"base..head": {{Path: "data/main.go", Kind: repoadapter.Modified}},
	}}
	res, err := changedetect.Detect(context.Background(), adapter, changedetect.Input{
		Project:     proj,
		AllProjects: all,
		Base:        baseversion.BaseVersion{CommitID: "base"},
		HeadCommit:  "head",
	})
	assert.NilError(t, err)
	assert.Assert(t, res.Changed)
}

func TestDetectDependencyChange(t *testing.T) {
	proj, all := baseProjects()
	adapter := &fakeAdapter{diffs: map[string][]repoadapter.PathChange{
		"base..head": {{Path: "core/lib.go", Kind: repoadapter.Modified}},
	}}
	res, err := changedetect.Detect(context.Background(), adapter, changedetect.Input{
		Project:     proj,
		AllProjects: all,
		Base:        baseversion.BaseVersion{CommitID: "base"},
		HeadCommit:  "head",
	})
	assert.NilError(t, err)
	assert.Assert(t, res.Changed)
}

func TestDetectDependencyRetagged(t *testing.T) {
	proj, all := baseProjects()
	adapter := &fakeAdapter{
		diffs: map[string][]repoadapter.PathChange{"base..head": {}},
		ancestorOf: map[string]map[string]bool{
			"base": {"core-retag": true},
		},
	}
	res, err := changedetect.Detect(context.Background(), adapter, changedetect.Input{
		Project:     proj,
		AllProjects: all,
		Base:        baseversion.BaseVersion{CommitID: "base"},
		HeadCommit:  "head",
		DependencyTags: map[string]changedetect.DependencyTag{
			"core": {Path: "core", CommitID: "core-retag"},
		},
	})
	assert.NilError(t, err)
	assert.Assert(t, res.Changed)
}

func TestDetectPackageLockChange(t *testing.T) {
	proj, all := baseProjects()
	adapter := &fakeAdapter{diffs: map[string][]repoadapter.PathChange{
		"base..head": {{Path: "data/packages.lock.json", Kind: repoadapter.Modified}},
	}}
	res, err := changedetect.Detect(context.Background(), adapter, changedetect.Input{
		Project:     proj,
		AllProjects: all,
		Base:        baseversion.BaseVersion{CommitID: "base"},
		HeadCommit:  "head",
	})
	assert.NilError(t, err)
	assert.Assert(t, res.Changed)
}

func TestDetectNoChange(t *testing.T) {
	proj, all := baseProjects()
	adapter := &fakeAdapter{
		diffs: map[string][]repoadapter.PathChange{"base..head": {{Path: "other/file.go", Kind: repoadapter.Modified}}},
		ancestorOf: map[string]map[string]bool{
			"base": {"core-retag": false},
		},
	}
	res, err := changedetect.Detect(context.Background(), adapter, changedetect.Input{
		Project:     proj,
		AllProjects: all,
		Base:        baseversion.BaseVersion{CommitID: "base"},
		HeadCommit:  "head",
		DependencyTags: map[string]changedetect.DependencyTag{
			"core": {Path: "core", CommitID: "core-retag"},
		},
	})
	assert.NilError(t, err)
	assert.Assert(t, !res.Changed)
}
