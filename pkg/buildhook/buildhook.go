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

// Package buildhook is the narrow seam between a decided version and
// whatever build system stamps it onto an artifact. It mirrors the
// teacher repository's internal/codegen.ExecutePostRunCommand pattern of
// handing a result off to an external, user-configured command rather
// than assuming any particular build tool.
package buildhook

import (
	"context"
	"fmt"

	"go.rgst.io/monoverse/internal/logging"
)

// Stamper receives a project's decided version so a build system can
// record it, e.g. by writing a VERSION file or setting a linker flag.
type Stamper interface {
	StampProperty(ctx context.Context, projectName, version string) error
}

// LoggingStamper is a Stamper that only logs the stamp it would have
// applied. It is the stamper the CLI's "version --stamp" flag uses.
type LoggingStamper struct {
	Logger logging.Logger
}

// StampProperty logs the version that would have been stamped.
func (s *LoggingStamper) StampProperty(_ context.Context, projectName, version string) error {
	log := s.Logger
	if log == nil {
		log = logging.Discard()
	}
	log.Info("stamping version", "project", projectName, "version", version)
	return nil
}

// MultiStamper fans a single stamp out to every Stamper in the slice,
// stopping at the first error.
type MultiStamper []Stamper

// StampProperty implements Stamper by calling every member in order.
func (m MultiStamper) StampProperty(ctx context.Context, projectName, version string) error {
	for i, s := range m {
		if err := s.StampProperty(ctx, projectName, version); err != nil {
			return fmt.Errorf("stamper %d: %w", i, err)
		}
	}
	return nil
}
