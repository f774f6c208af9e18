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

package gitfixture_test

import (
	"context"
	"testing"

	"go.rgst.io/monoverse/internal/testing/gitfixture"
	"gotest.tools/v3/assert"
)

func TestFixtureBasicHistory(t *testing.T) {
	repo, err := gitfixture.New()
	assert.NilError(t, err)

	assert.NilError(t, repo.WriteFile("core/main.go", "package core\n"))
	_, err = repo.Commit("initial commit")
	assert.NilError(t, err)
	assert.NilError(t, repo.Tag("v1.0.0"))

	assert.NilError(t, repo.WriteFile("core/main.go", "package core\n\nfunc main() {}\n"))
	second, err := repo.Commit("add main")
	assert.NilError(t, err)

	adapter := repo.Adapter()
	head, err := adapter.CurrentBranch(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, second, head.TipCommitID)

	tags, err := adapter.Tags(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, 1, len(tags))
	assert.Equal(t, "v1.0.0", tags[0].Name)
}

func TestFixtureAnnotatedTagPeels(t *testing.T) {
	repo, err := gitfixture.New()
	assert.NilError(t, err)

	assert.NilError(t, repo.WriteFile("README.md", "hello\n"))
	first, err := repo.Commit("initial commit")
	assert.NilError(t, err)
	assert.NilError(t, repo.AnnotatedTag("v2.0.0", "release 2.0.0"))

	adapter := repo.Adapter()
	tags, err := adapter.Tags(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, 1, len(tags))
	assert.Equal(t, first, tags[0].TargetCommitID)
}
