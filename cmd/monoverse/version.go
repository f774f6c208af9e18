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

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.rgst.io/monoverse/pkg/buildhook"
	"go.rgst.io/monoverse/pkg/project"
)

func newVersionCommand() *cli.Command {
	return &cli.Command{
		Name:      "version",
		Usage:     "compute the decided version for a single project",
		ArgsUsage: "<project-name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "force-version",
				Usage: "bypass computation entirely and use this version",
			},
			&cli.BoolFlag{
				Name:  "stamp",
				Usage: "feed the decided version into the configured build hook",
			},
		},
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return errors.New("version requires a project name argument")
			}

			runner, _, err := setupRunner(c)
			if err != nil {
				return err
			}
			runner.Config.ForceVersion = c.String("force-version")

			var target *project.Ref
			for _, p := range runner.Manifest.Projects {
				if p.Name == name {
					target = p
					break
				}
			}
			if target == nil {
				return fmt.Errorf("no project named %q in manifest", name)
			}

			out, err := runner.ComputeForProject(c.Context, target)
			if err != nil {
				return errors.Wrapf(err, "computing version for %s", name)
			}

			fmt.Println(out.Version)
			if c.Bool("debug") {
				fmt.Fprintln(c.App.ErrWriter, out.Rationale)
			}

			if c.Bool("stamp") {
				stamper := &buildhook.LoggingStamper{Logger: runner.Config.Logger}
				if err := stamper.StampProperty(c.Context, name, out.Version); err != nil {
					return errors.Wrap(err, "stamping version")
				}
			}

			return nil
		},
	}
}
