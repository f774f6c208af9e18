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

// Package logging is a small wrapper around [github.com/hashicorp/go-hclog]
// used for the engine and its internal collaborators' debug output,
// playing the same role the teacher repository's pkg/slogext plays
// around the standard library's log/slog.
package logging

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// Logger is the logging surface used throughout the engine's internal
// packages.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	SetLevel(level Level)
}

// Level is a logging verbosity level.
type Level = hclog.Level

// These mirror hclog's levels so callers don't need to import hclog
// directly.
const (
	Debug = hclog.Debug
	Info  = hclog.Info
	Warn  = hclog.Warn
	Error = hclog.Error
)

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level Level) Logger {
	return &logger{hclog.New(&hclog.LoggerOptions{
		Name:   "monoverse",
		Output: w,
		Level:  level,
	})}
}

// Discard returns a Logger that drops everything, used as the default
// for callers that don't care about rationale/debug text (e.g. tests).
func Discard() Logger {
	return &logger{hclog.NewNullLogger()}
}

type logger struct {
	hclog.Logger
}

func (l *logger) With(args ...any) Logger {
	return &logger{l.Logger.With(args...)}
}

func (l *logger) SetLevel(level Level) {
	l.Logger.SetLevel(level)
}
