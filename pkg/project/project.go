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

// Package project implements the project-loader collaborator (spec §6):
// parsing a monorepo manifest into [Ref] values. This is
// deliberately a thin, standalone collaborator, not part of the
// version-decision engine's core, mirroring how the teacher repository's
// pkg/configuration parses stencil.yaml/service.yaml independently of
// the module-resolution core in internal/modules.
package project

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.rgst.io/monoverse/internal/slicesext"
)

// Ref is a single project within a monorepo.
type Ref struct {
	// Name is the project's identifier. The canonical slug used in tag
	// matching is lowercase(Name).
	Name string `yaml:"name"`

	// RelativePath is the project's directory relative to the repository
	// root, normalized to forward slashes with no trailing slash.
	RelativePath string `yaml:"path"`

	// Dependencies are the relative paths of this project's direct
	// dependencies.
	Dependencies []string `yaml:"dependencies,omitempty"`

	// IsTest marks this project as a test-only project.
	IsTest bool `yaml:"isTest,omitempty"`

	// IsPackable marks this project as producing a distributable
	// artifact.
	IsPackable bool `yaml:"isPackable,omitempty"`
}

// Slug returns the canonical, lowercased project identifier used to
// match project-scoped tags.
func (r Ref) Slug() string {
	return strings.ToLower(r.Name)
}

// Manifest is the top-level monorepo manifest: the list of every
// project the engine knows how to version.
type Manifest struct {
	// Projects are every project declared in this monorepo.
	Projects []*Ref `yaml:"projects"`
}

// ByPath returns a lookup from normalized relative path to project ref.
func (m *Manifest) ByPath() map[string]*Ref {
	return slicesext.Map(m.Projects, func(p *Ref) string { return p.RelativePath })
}

// LoadManifest reads and parses a manifest file, normalizing every
// project's paths and validating the dependency graph is acyclic.
//
// Cycles are broken rather than rejected, per spec.md §1's Non-goal
// ("does not resolve dependency cycles semantically; treats the
// dependency graph as a DAG after cycle breaking"): the back-edge that
// would close a cycle is dropped and a warning is returned alongside the
// manifest instead of an error.
func LoadManifest(path string) (*Manifest, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open manifest")
	}
	defer f.Close()

	var m Manifest
	if err := yaml.NewDecoder(f).Decode(&m); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse manifest")
	}

	for _, p := range m.Projects {
		p.RelativePath = normalizePath(p.RelativePath)
		deps := make([]string, len(p.Dependencies))
		for i, d := range p.Dependencies {
			deps[i] = normalizePath(d)
		}
		p.Dependencies = deps
	}

	warnings := breakCycles(&m)
	return &m, warnings, nil
}

// normalizePath canonicalizes a manifest-declared path the same way
// paths crossing the engine boundary must be: forward slashes, no
// leading "./", no trailing slash.
func normalizePath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))
	if p == "." {
		return ""
	}
	return strings.TrimSuffix(p, "/")
}

// breakCycles performs a DFS over the dependency graph, dropping any
// edge that would close a cycle, and returns a human-readable warning
// for each dropped edge.
func breakCycles(m *Manifest) []string {
	byPath := m.ByPath()

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(m.Projects))
	var warnings []string

	var visit func(p *Ref)
	visit = func(p *Ref) {
		state[p.RelativePath] = visiting

		kept := p.Dependencies[:0]
		for _, depPath := range p.Dependencies {
			dep, ok := byPath[depPath]
			if !ok {
				// Unknown dependency path; leave it for the caller to notice
				// when resolving, not this loader's concern.
				kept = append(kept, depPath)
				continue
			}

			switch state[dep.RelativePath] {
			case visiting:
				warnings = append(warnings, fmt.Sprintf(
					"dropped dependency edge %s -> %s to break a cycle", p.RelativePath, dep.RelativePath))
				continue
			case unvisited:
				visit(dep)
			}
			kept = append(kept, depPath)
		}
		p.Dependencies = kept

		state[p.RelativePath] = done
	}

	for _, p := range m.Projects {
		if state[p.RelativePath] == unvisited {
			visit(p)
		}
	}

	return warnings
}
