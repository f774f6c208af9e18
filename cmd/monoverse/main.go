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

// Package main implements the monoverse CLI. This is the entrypoint for
// the CLI.
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// version is set at build time via ldflags.
var version = "dev"

// main is the entrypoint for the monoverse CLI.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logrus.New()

	app := cli.App{
		Version:     version,
		Name:        "monoverse",
		Description: "derives per-project semantic versions for a git monorepo from its tags, branches, and diffs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "repo",
				Usage: "path to the git repository to evaluate",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "path to the monorepo project manifest",
				Value: "monoverse.yaml",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "optional config file overriding tag-prefix/skip-tests/skip-non-packable",
			},
			&cli.StringFlag{
				Name:  "tag-prefix",
				Usage: "literal prefix stripped from version tag names",
				Value: "v",
			},
			&cli.BoolFlag{
				Name:  "skip-tests",
				Usage: "short-circuit test projects to 1.0.0",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "skip-non-packable",
				Usage: "short-circuit non-packable projects to 1.0.0",
				Value: true,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "enable debug logging of the decision pipeline",
			},
			&cli.BoolFlag{
				Name:  "extra-debug",
				Usage: "append a full dump of each composer input to its rationale",
			},
		},
		Commands: []*cli.Command{
			newReportCommand(),
			newVersionCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.WithError(err).Error("failed to run")
		os.Exit(1)
	}
}
