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

package repoadapter

import (
	"context"
	"io"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
)

// GoGitAdapter implements Adapter on top of an already-opened go-git
// repository.
type GoGitAdapter struct {
	repo *gogit.Repository
}

// Open opens the git repository rooted at path (or any of its parent
// directories, per go-git's PlainOpen semantics).
func Open(path string) (*GoGitAdapter, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrap(ErrRepoUnavailable, err.Error())
	}
	return &GoGitAdapter{repo: repo}, nil
}

// FromRepository wraps an already-constructed go-git repository, e.g.
// one built in-memory for tests (see internal/testing/gitfixture).
func FromRepository(repo *gogit.Repository) *GoGitAdapter {
	return &GoGitAdapter{repo: repo}
}

// CurrentBranch implements Adapter.
func (a *GoGitAdapter) CurrentBranch(_ context.Context) (BranchHead, error) {
	ref, err := a.repo.Head()
	if err != nil {
		return BranchHead{}, errors.Wrap(ErrRepoUnavailable, err.Error())
	}

	name := ref.Name().Short()
	return BranchHead{Name: name, TipCommitID: ref.Hash().String()}, nil
}

// Tags implements Adapter. Annotated and lightweight tags are treated
// uniformly: annotated tag objects are peeled down to the commit they
// ultimately point at.
func (a *GoGitAdapter) Tags(_ context.Context) ([]Tag, error) {
	iter, err := a.repo.Tags()
	if err != nil {
		return nil, errors.Wrap(ErrRepoUnavailable, err.Error())
	}
	defer iter.Close()

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		commitHash, perr := a.peelToCommit(ref.Hash())
		if perr != nil {
			// Tag doesn't point at a commit we can resolve (e.g. a tag on a
			// blob/tree); skip it silently, same treatment as an
			// unparseable tag name (spec §7, InvalidTagName).
			return nil
		}

		tags = append(tags, Tag{Name: ref.Name().Short(), TargetCommitID: commitHash.String()})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrRepoUnavailable, err.Error())
	}

	sortTags(tags)
	return tags, nil
}

// peelToCommit resolves hash, which may point at an annotated tag
// object, down to the commit it ultimately targets.
func (a *GoGitAdapter) peelToCommit(hash plumbing.Hash) (plumbing.Hash, error) {
	if tagObj, err := a.repo.TagObject(hash); err == nil {
		commit, err := tagObj.Commit()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return commit.Hash, nil
	}

	if _, err := a.repo.CommitObject(hash); err != nil {
		return plumbing.ZeroHash, err
	}
	return hash, nil
}

// commitByID resolves a commit id string to an *object.Commit,
// translating go-git's not-found error into ErrUnknownCommit.
func (a *GoGitAdapter) commitByID(id string) (*object.Commit, error) {
	hash := plumbing.NewHash(id)
	commit, err := a.repo.CommitObject(hash)
	if err != nil {
		return nil, errors.Wrap(ErrUnknownCommit, id)
	}
	return commit, nil
}

// DiffPaths implements Adapter using go-git's tree-diff machinery.
// Renames are reconstructed heuristically: a delete and an insert that
// share an identical blob hash are merged into a single Renamed entry
// keyed on the new path, per spec §4.6.
func (a *GoGitAdapter) DiffPaths(_ context.Context, fromCommit, toCommit string) ([]PathChange, error) {
	fromTree, err := a.treeFor(fromCommit)
	if err != nil {
		return nil, err
	}
	toTree, err := a.treeFor(toCommit)
	if err != nil {
		return nil, err
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, errors.Wrap(ErrRepoUnavailable, err.Error())
	}

	type sided struct {
		path string
		hash plumbing.Hash
	}
	var inserts, deletes []sided
	var modifies []string

	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			continue
		}

		switch action {
		case object.Insert:
			inserts = append(inserts, sided{path: canonicalizePath(c.To.Name), hash: c.To.TreeEntry.Hash})
		case object.Delete:
			deletes = append(deletes, sided{path: canonicalizePath(c.From.Name), hash: c.From.TreeEntry.Hash})
		default:
			modifies = append(modifies, canonicalizePath(c.To.Name))
		}
	}

	renamedNewPaths := make(map[string]bool)
	var result []PathChange
	for _, ins := range inserts {
		renamed := false
		for di, del := range deletes {
			if del.hash == ins.hash && del.hash != plumbing.ZeroHash {
				result = append(result, PathChange{Path: ins.path, Kind: Renamed})
				renamedNewPaths[ins.path] = true
				deletes = append(deletes[:di], deletes[di+1:]...)
				renamed = true
				break
			}
		}
		if !renamed {
			result = append(result, PathChange{Path: ins.path, Kind: Added})
		}
	}
	for _, del := range deletes {
		result = append(result, PathChange{Path: del.path, Kind: Deleted})
	}
	for _, m := range modifies {
		result = append(result, PathChange{Path: m, Kind: Modified})
	}

	return result, nil
}

func (a *GoGitAdapter) treeFor(commitID string) (*object.Tree, error) {
	commit, err := a.commitByID(commitID)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Wrap(ErrRepoUnavailable, err.Error())
	}
	return tree, nil
}

// ReadBlob implements Adapter.
func (a *GoGitAdapter) ReadBlob(_ context.Context, commit, path string) ([]byte, error) {
	c, err := a.commitByID(commit)
	if err != nil {
		return nil, err
	}

	f, err := c.File(canonicalizePath(path))
	if err != nil {
		return nil, ErrNotFound
	}

	r, err := f.Reader()
	if err != nil {
		return nil, errors.Wrap(ErrRepoUnavailable, err.Error())
	}
	defer r.Close()

	return io.ReadAll(r)
}

// IsAncestor implements Adapter.
func (a *GoGitAdapter) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	ancestorCommit, err := a.commitByID(ancestor)
	if err != nil {
		return false, err
	}
	descendantCommit, err := a.commitByID(descendant)
	if err != nil {
		return false, err
	}

	if ancestorCommit.Hash == descendantCommit.Hash {
		return true, nil
	}

	return ancestorCommit.IsAncestor(descendantCommit)
}
