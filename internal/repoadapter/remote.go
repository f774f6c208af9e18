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
	"regexp"

	gogit "github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
	"go.rgst.io/monoverse/internal/testing/cmdexec"
)

// OriginURL returns the first configured URL of the repository's
// "origin" remote, for CLI display purposes only; it is not part of the
// Adapter interface the engine itself consumes.
func OriginURL(path string) (string, bool) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}

	remote, err := repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 {
		return "", false
	}
	return remote.Config().URLs[0], true
}

// ErrNoRemoteHeadBranch is returned when the "origin" remote's HEAD
// branch cannot be determined.
var ErrNoRemoteHeadBranch = errors.New("repoadapter: failed to get head branch from remote origin")

var headPattern = regexp.MustCompile(`HEAD branch: ([[:alpha:]][\w./-]*)`)

// DefaultBranch shells out to "git remote show origin" to discover the
// remote's default branch, for the CLI report's --show-default-branch
// convenience only: go-git has no native equivalent of the remote's
// advertised HEAD symref, since that requires a protocol round-trip
// rather than a local ref read. Routed through cmdexec so it stays
// mockable in tests without invoking a real git binary.
func DefaultBranch(ctx context.Context, path string) (string, error) {
	cmd := cmdexec.CommandContext(ctx, "git", "-C", path, "remote", "show", "origin")
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(err, "failed to get head branch from remote origin")
	}

	matches := headPattern.FindStringSubmatch(string(out))
	if len(matches) != 2 {
		return "", ErrNoRemoteHeadBranch
	}
	return matches[1], nil
}
