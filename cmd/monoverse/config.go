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
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// configSchemaJSON validates a --config file before it's allowed to
// override any engine.Config default. It's a small, inline schema
// rather than a loaded file: the config surface is four fields and
// doesn't warrant shipping a separate schema asset. package_paths is
// accepted by the schema but is not decoded into fileConfig, so it has
// no effect.
const configSchemaJSON = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"tag_prefix": {"type": "string"},
		"skip_tests": {"type": "boolean"},
		"skip_non_packable": {"type": "boolean"},
		"package_paths": {"type": "array", "items": {"type": "string"}}
	}
}`

// fileConfig is the subset of engine.Config a --config file may
// override.
type fileConfig struct {
	TagPrefix       string `json:"tag_prefix,omitempty" yaml:"tag_prefix,omitempty"`
	SkipTests       *bool  `json:"skip_tests,omitempty" yaml:"skip_tests,omitempty"`
	SkipNonPackable *bool  `json:"skip_non_packable,omitempty" yaml:"skip_non_packable,omitempty"`
}

// loadFileConfig reads, schema-validates, and parses a YAML config file
// at path. A missing path is not an error: the CLI's flag defaults
// apply unmodified.
func loadFileConfig(path string) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading config file")
	}

	var asMap map[string]any
	if err := yaml.Unmarshal(raw, &asMap); err != nil {
		return nil, errors.Wrap(err, "parsing config file as YAML")
	}

	schema, err := jsonschema.CompileString("config.json", configSchemaJSON)
	if err != nil {
		return nil, errors.Wrap(err, "compiling config schema")
	}

	// jsonschema validates against JSON-shaped data (map[string]any with
	// float64 numbers, not YAML's richer type set), so round-trip through
	// encoding/json first.
	normalized, err := json.Marshal(asMap)
	if err != nil {
		return nil, errors.Wrap(err, "normalizing config file")
	}
	var asJSON any
	if err := json.Unmarshal(normalized, &asJSON); err != nil {
		return nil, errors.Wrap(err, "normalizing config file")
	}

	if err := schema.Validate(asJSON); err != nil {
		return nil, errors.Wrap(err, "config file failed schema validation")
	}

	var cfg fileConfig
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config file")
	}
	return &cfg, nil
}
