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

// Package gitfixture builds small, fully in-memory git repositories for
// exercising the engine end to end, composed from go-git's memory
// storer and go-billy/v5/memfs the same way the teacher's in-memory
// filesystem test helpers were built, extended here to whole commit/tag
// histories rather than a single file.
package gitfixture

import (
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"

	"go.rgst.io/monoverse/internal/repoadapter"
)

// author is the fixed commit author used for every fixture commit, so
// fixture builds stay byte-for-byte reproducible.
var author = object.Signature{
	Name:  "monoverse-fixture",
	Email: "fixture@example.invalid",
	When:  time.Unix(1700000000, 0).UTC(),
}

// Repo is an in-memory repository under construction.
type Repo struct {
	storer *memory.Storage
	repo   *gogit.Repository
	wt     *gogit.Worktree
}

// New creates an empty in-memory repository whose HEAD points at
// go-git's default initial branch, "master".
func New() (*Repo, error) {
	storer := memory.NewStorage()
	fs := memfs.New()

	repo, err := gogit.Init(storer, fs)
	if err != nil {
		return nil, fmt.Errorf("initializing fixture repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening fixture worktree: %w", err)
	}

	return &Repo{storer: storer, repo: repo, wt: wt}, nil
}

// WriteFile writes content to path in the worktree and stages it.
func (r *Repo) WriteFile(path, content string) error {
	f, err := r.wt.Filesystem.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if _, err := r.wt.Add(path); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}

// RemoveFile removes path from the worktree and stages the deletion.
func (r *Repo) RemoveFile(path string) error {
	if _, err := r.wt.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// Commit records a commit with the given message over whatever has been
// staged so far, returning the new commit's hash.
func (r *Repo) Commit(message string) (string, error) {
	sig := author
	hash, err := r.wt.Commit(message, &gogit.CommitOptions{Author: &sig})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}

// Tag creates a lightweight tag named name pointing at the repository's
// current HEAD.
func (r *Repo) Tag(name string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("reading head for tag %s: %w", name, err)
	}
	if _, err := r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	return nil
}

// AnnotatedTag creates an annotated tag named name pointing at the
// repository's current HEAD, exercising the tag-peeling path in
// repoadapter's go-git implementation.
func (r *Repo) AnnotatedTag(name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("reading head for tag %s: %w", name, err)
	}
	sig := author
	if _, err := r.repo.CreateTag(name, head.Hash(), &gogit.CreateTagOptions{
		Tagger:  &sig,
		Message: message,
	}); err != nil {
		return fmt.Errorf("creating annotated tag %s: %w", name, err)
	}
	return nil
}

// Checkout creates (if new) and switches to a branch named name,
// starting from the current HEAD.
func (r *Repo) Checkout(name string, create bool) error {
	ref := plumbing.NewBranchReferenceName(name)
	return r.wt.Checkout(&gogit.CheckoutOptions{Branch: ref, Create: create})
}

// Adapter returns a repoadapter.Adapter backed by this fixture.
func (r *Repo) Adapter() repoadapter.Adapter {
	return repoadapter.FromRepository(r.repo)
}

// HeadCommit returns the current HEAD's commit id.
func (r *Repo) HeadCommit() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}
