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

// Package repoadapter implements the read-only Repository Adapter
// collaborator (spec §4.1) on top of
// [github.com/go-git/go-git/v5], mirroring how the teacher repository's
// internal/modules.Module.GetFS opens repositories directly with
// gogit.PlainOpen rather than shelling out to a git binary.
package repoadapter

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Errors returned by the adapter. These map directly onto spec §7's
// RepoUnavailable and UnknownCommit error kinds.
var (
	// ErrRepoUnavailable is returned when the repository cannot be
	// opened or read.
	ErrRepoUnavailable = errors.New("repoadapter: repository unavailable")

	// ErrUnknownCommit is returned when a commit id cannot be resolved.
	ErrUnknownCommit = errors.New("repoadapter: unknown commit")

	// ErrNotFound is returned by ReadBlob when the path doesn't exist in
	// the given commit's tree.
	ErrNotFound = errors.New("repoadapter: path not found")
)

// ChangeKind classifies a single path's change between two trees.
type ChangeKind int

const (
	// Added means the path did not exist in the "from" tree.
	Added ChangeKind = iota
	// Modified means the path's contents changed between trees.
	Modified
	// Deleted means the path did not exist in the "to" tree.
	Deleted
	// Renamed means the path was moved, possibly with content changes;
	// the entry is keyed on the new ("to") path, per spec §4.6.
	Renamed
)

// PathChange is one entry of a DiffPaths result.
type PathChange struct {
	// Path is the forward-slash, repo-root-relative path. For Renamed
	// entries this is the new path.
	Path string
	// Kind is the classification of the change.
	Kind ChangeKind
}

// BranchHead describes the repository's current branch.
type BranchHead struct {
	// Name is the branch's short name, e.g. "main".
	Name string
	// TipCommitID is the commit the branch currently points to.
	TipCommitID string
}

// Tag is a repository tag before grammar interpretation: just a name
// and the commit it ultimately resolves to (annotated tags are peeled
// transparently).
type Tag struct {
	Name           string
	TargetCommitID string
}

// Adapter is the read-only repository view the version-decision engine
// consumes. See spec §4.1.
type Adapter interface {
	// CurrentBranch returns the repository's current branch and its tip
	// commit.
	CurrentBranch(ctx context.Context) (BranchHead, error)

	// Tags returns every tag in the repository, resolved to their target
	// commit. Enumeration order is stable within a single Adapter value
	// but is not otherwise meaningful.
	Tags(ctx context.Context) ([]Tag, error)

	// DiffPaths returns the set of paths that changed between two
	// commits, canonicalized to forward slashes with no leading "./".
	DiffPaths(ctx context.Context, fromCommit, toCommit string) ([]PathChange, error)

	// ReadBlob returns the contents of path as it existed in commit, or
	// ErrNotFound if the path doesn't exist there.
	ReadBlob(ctx context.Context, commit, path string) ([]byte, error)

	// IsAncestor reports whether ancestor is a (non-strict) ancestor of
	// descendant.
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
}

// canonicalizePath normalizes a path the way every Adapter
// implementation must before returning it: forward slashes, no leading
// "./", no trailing slash.
func canonicalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimSuffix(p, "/")
}

// sortTags orders tags by name so that enumeration is stable within a
// call, per spec §4.4's ordering requirement on ties.
func sortTags(tags []Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
}
