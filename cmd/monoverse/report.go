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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
	"sigs.k8s.io/yaml"

	"go.rgst.io/monoverse/internal/repoadapter"
)

// projectReport is one row of the report verb's output, in every
// format.
type projectReport struct {
	Project   string `json:"project"`
	Path      string `json:"path"`
	Version   string `json:"version"`
	Changed   bool   `json:"changed"`
	Rationale string `json:"rationale,omitempty"`
}

func newReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "compute the decided version for every project in the manifest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "output format: text, json, yaml, or csv",
				Value: "text",
			},
			&cli.BoolFlag{
				Name:  "show-default-branch",
				Usage: "resolve and print the origin remote's default branch in the text report header",
			},
		},
		Action: func(c *cli.Context) error {
			runner, repoName, err := setupRunner(c)
			if err != nil {
				return err
			}

			reports := make([]projectReport, 0, len(runner.Manifest.Projects))
			for _, p := range runner.Manifest.Projects {
				out, err := runner.ComputeForProject(c.Context, p)
				if err != nil {
					return errors.Wrapf(err, "computing version for %s", p.Name)
				}
				reports = append(reports, projectReport{
					Project:   p.Name,
					Path:      p.RelativePath,
					Version:   out.Version,
					Changed:   out.Changed,
					Rationale: out.Rationale,
				})
			}

			defaultBranch := ""
			if c.Bool("show-default-branch") {
				// Best-effort: a repo with no configured remote, or one
				// unreachable over the network, shouldn't fail the report.
				if b, err := repoadapter.DefaultBranch(c.Context, c.String("repo")); err == nil {
					defaultBranch = b
				}
			}

			return writeReport(c.String("format"), repoName, defaultBranch, reports)
		},
	}
}

func writeReport(format, repoName, defaultBranch string, reports []projectReport) error {
	out := os.Stdout
	switch format {
	case "json":
		b, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshaling report")
		}
		b = append(b, '\n')
		_, err = out.Write(b)
		return err

	case "yaml":
		// sigs.k8s.io/yaml marshals via the struct's json tags, so this
		// genuinely emits YAML (unlike passing it reports for "json").
		b, err := yaml.Marshal(reports)
		if err != nil {
			return errors.Wrap(err, "marshaling report")
		}
		_, err = out.Write(b)
		return err

	case "csv":
		cw := csv.NewWriter(out)
		if err := cw.Write([]string{"project", "path", "version", "changed", "rationale"}); err != nil {
			return err
		}
		for _, r := range reports {
			if err := cw.Write([]string{r.Project, r.Path, r.Version, fmt.Sprint(r.Changed), r.Rationale}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	case "text", "":
		width := textWidth()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "REPOSITORY\t%s\n", repoName)
		if defaultBranch != "" {
			fmt.Fprintf(tw, "DEFAULT BRANCH\t%s\n", defaultBranch)
		}
		fmt.Fprintln(tw, "PROJECT\tPATH\tVERSION\tCHANGED")
		for _, r := range reports {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", r.Project, r.Path, r.Version, r.Changed)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if width > 0 {
			fmt.Fprintln(out, dashes(width))
		}
		return nil

	default:
		return fmt.Errorf("unknown format %q: want text, json, yaml, or csv", format)
	}
}

// textWidth reports the terminal width for the text report's trailing
// divider, or 0 when stdout isn't a terminal.
func textWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
