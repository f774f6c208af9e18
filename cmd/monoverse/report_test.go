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
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/bradleyjkemp/cupaloy"
	"gotest.tools/v3/assert"
)

func sampleReports() []projectReport {
	return []projectReport{
		{Project: "Core", Path: "src/Core", Version: "1.0.1", Changed: true, Rationale: "direct change in project: src/Core/CoreModels.cs"},
		{Project: "Data", Path: "src/Data", Version: "1.0.0", Changed: false, Rationale: "no change detected"},
	}
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it, since writeReport writes straight to
// os.Stdout rather than an injected writer (matching the teacher CLI's
// direct-to-stdout style elsewhere in cmd/stencil).
func captureStdout(t *testing.T, fn func()) []byte {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestWriteReportJSONSnapshot(t *testing.T) {
	out := captureStdout(t, func() {
		if err := writeReport("json", "example/repo", "", sampleReports()); err != nil {
			t.Fatal(err)
		}
	})
	cupaloy.New(cupaloy.CreateNewAutomatically(true)).SnapshotT(t, out)
}

// TestWriteReportJSONIsActuallyJSON guards against regressing to a YAML
// marshaler: unlike the snapshot test above (which would happily
// rubber-stamp a first-run YAML snapshot), this round-trips the output
// through encoding/json and checks it decodes back to the input.
func TestWriteReportJSONIsActuallyJSON(t *testing.T) {
	want := sampleReports()
	out := captureStdout(t, func() {
		if err := writeReport("json", "example/repo", "", want); err != nil {
			t.Fatal(err)
		}
	})

	var got []projectReport
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out)
	}
	assert.DeepEqual(t, got, want)
}

func TestWriteReportYAMLSnapshot(t *testing.T) {
	out := captureStdout(t, func() {
		if err := writeReport("yaml", "example/repo", "", sampleReports()); err != nil {
			t.Fatal(err)
		}
	})
	cupaloy.New(cupaloy.CreateNewAutomatically(true)).SnapshotT(t, out)
}

func TestWriteReportCSVSnapshot(t *testing.T) {
	out := captureStdout(t, func() {
		if err := writeReport("csv", "example/repo", "", sampleReports()); err != nil {
			t.Fatal(err)
		}
	})
	cupaloy.New(cupaloy.CreateNewAutomatically(true)).SnapshotT(t, out)
}

func TestWriteReportUnknownFormat(t *testing.T) {
	if err := writeReport("xml", "example/repo", "", sampleReports()); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
