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

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	giturls "github.com/whilp/git-urls"
	"go.rgst.io/monoverse/internal/engine"
	"go.rgst.io/monoverse/internal/logging"
	"go.rgst.io/monoverse/internal/repoadapter"
	"go.rgst.io/monoverse/pkg/project"
)

// setupRunner opens the repository and manifest named by the command's
// global flags and returns a Runner ready to evaluate projects, along
// with a short display name for the repository (derived from its
// "origin" remote when one exists, else the filesystem path).
func setupRunner(c *cli.Context) (*engine.Runner, string, error) {
	adapter, err := repoadapter.Open(c.String("repo"))
	if err != nil {
		return nil, "", errors.Wrap(err, "opening repository")
	}

	manifest, warnings, err := project.LoadManifest(c.String("manifest"))
	if err != nil {
		return nil, "", errors.Wrap(err, "loading project manifest")
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	level := logging.Warn
	if c.Bool("debug") {
		level = logging.Debug
	}

	cfg := engine.Config{
		TagPrefix:       c.String("tag-prefix"),
		SkipTests:       c.Bool("skip-tests"),
		SkipNonPackable: c.Bool("skip-non-packable"),
		Debug:           c.Bool("debug"),
		ExtraDebug:      c.Bool("extra-debug"),
		Logger:          logging.New(os.Stderr, level),
	}

	fileCfg, err := loadFileConfig(c.String("config"))
	if err != nil {
		return nil, "", err
	}
	if fileCfg != nil {
		if fileCfg.TagPrefix != "" {
			cfg.TagPrefix = fileCfg.TagPrefix
		}
		if fileCfg.SkipTests != nil {
			cfg.SkipTests = *fileCfg.SkipTests
		}
		if fileCfg.SkipNonPackable != nil {
			cfg.SkipNonPackable = *fileCfg.SkipNonPackable
		}
	}

	runner := &engine.Runner{Adapter: adapter, Manifest: manifest, Config: cfg}
	return runner, repoDisplayName(c.String("repo")), nil
}

// repoDisplayName returns a short, human-friendly name for the
// repository at path: its "origin" remote URL's path component when one
// is configured, otherwise the filesystem path itself.
func repoDisplayName(path string) string {
	rawURL, ok := repoadapter.OriginURL(path)
	if !ok {
		return path
	}

	u, err := giturls.Parse(rawURL)
	if err != nil || u.Path == "" {
		return path
	}
	return strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), ".git")
}
