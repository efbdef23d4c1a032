// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/detpipe/lib/config"
	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/fault"
	"github.com/bureau-foundation/detpipe/lib/input"
)

func testRequest() Request {
	inputs := InputsFrom([]input.File{
		{Path: "data/b.txt", Data: []byte("bravo"), Hash: digest.Input([]byte("bravo"))},
		{Path: "data/a.txt", Data: []byte("alpha!"), Hash: digest.Input([]byte("alpha!"))},
	})
	return Request{
		Inputs:     inputs,
		ConfigHash: digest.Config([]byte("config")),
		Config:     config.Document{Transform: "upper", Seed: 7},
		Transform:  "upper",
		Version:    "1.0.0",
		Artifacts: []Artifact{
			{Input: "data/b.txt", Hash: digest.Artifact([]byte("BRAVO")), Size: 5},
			{Input: "data/a.txt", Hash: digest.Artifact([]byte("ALPHA!")), Size: 6},
		},
		Storage: Storage{
			Compression: "none",
			Files: []StoredFile{
				{Input: "data/b.txt", Path: "artifacts/b.txt.processed"},
				{Input: "data/a.txt", Path: "artifacts/a.txt.processed"},
			},
		},
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600)),
		Environment: Environment{ToolVersion: "test", GoVersion: "go1.25", OS: "linux", Arch: "amd64"},
	}
}

func TestBuildCompletenessAndOrder(t *testing.T) {
	request := testRequest()
	record, err := Build(request)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if record.Format != FormatV1 {
		t.Errorf("Format = %q, want %q", record.Format, FormatV1)
	}
	deterministic := record.Deterministic
	if deterministic.Version != "1.0.0" || deterministic.Transform != "upper" {
		t.Errorf("version/transform = %q/%q", deterministic.Version, deterministic.Transform)
	}
	if deterministic.HashAlgorithm != digest.Algorithm {
		t.Errorf("HashAlgorithm = %q, want %q", deterministic.HashAlgorithm, digest.Algorithm)
	}
	if deterministic.ConfigHash != request.ConfigHash {
		t.Errorf("ConfigHash = %s, want %s", deterministic.ConfigHash, request.ConfigHash)
	}
	if len(deterministic.Inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(deterministic.Inputs))
	}
	// Order is the request order, not sorted by path.
	if deterministic.Inputs[0].Path != "data/b.txt" || deterministic.Inputs[1].Path != "data/a.txt" {
		t.Errorf("input order = %q, %q", deterministic.Inputs[0].Path, deterministic.Inputs[1].Path)
	}
	if deterministic.Inputs[1].Size != 6 || deterministic.Inputs[1].Hash != digest.Input([]byte("alpha!")) {
		t.Errorf("input[1] = %+v", deterministic.Inputs[1])
	}
	if record.Audit.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp location = %v, want UTC", record.Audit.Timestamp.Location())
	}
	if !record.Audit.Timestamp.Equal(request.Timestamp) {
		t.Errorf("timestamp = %v, want %v", record.Audit.Timestamp, request.Timestamp)
	}
	if record.RunID.IsZero() {
		t.Error("RunID is zero")
	}
	if err := record.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildCopiesRequestSlices(t *testing.T) {
	request := testRequest()
	record, err := Build(request)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	request.Inputs[0].Path = "mutated"
	request.Artifacts[0].Size = 999
	if record.Deterministic.Inputs[0].Path != "data/b.txt" {
		t.Error("record shares the request's input slice")
	}
	if record.Deterministic.Artifacts[0].Size != 5 {
		t.Error("record shares the request's artifact slice")
	}
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty version", func(r *Request) { r.Version = "" }},
		{"blank version", func(r *Request) { r.Version = "   " }},
		{"empty transform", func(r *Request) { r.Transform = "" }},
		{"no inputs", func(r *Request) { r.Inputs = nil; r.Artifacts = nil; r.Storage.Files = nil }},
		{"zero config hash", func(r *Request) { r.ConfigHash = digest.Digest{} }},
		{"artifact count", func(r *Request) { r.Artifacts = r.Artifacts[:1] }},
		{"artifact order", func(r *Request) {
			r.Artifacts[0], r.Artifacts[1] = r.Artifacts[1], r.Artifacts[0]
		}},
		{"stored file count", func(r *Request) { r.Storage.Files = r.Storage.Files[:1] }},
		{"stored file order", func(r *Request) { r.Storage.Files[0].Input = "other" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			request := testRequest()
			test.mutate(&request)
			_, err := Build(request)
			if !fault.Is(err, fault.InvalidRequest) {
				t.Fatalf("Build error = %v, want InvalidRequest", err)
			}
		})
	}
}

func TestRunIDIgnoresAuditAndStorage(t *testing.T) {
	first, err := Build(testRequest())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	request := testRequest()
	request.Timestamp = request.Timestamp.Add(time.Hour)
	request.Environment.Hostname = "elsewhere"
	request.Storage.Compression = "zstd"
	request.Storage.Files[0].Path = "artifacts/b.txt.processed.zst"
	request.Storage.Files[1].Path = "artifacts/a.txt.processed.zst"
	second, err := Build(request)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if first.RunID != second.RunID {
		t.Errorf("run IDs differ: %s vs %s", first.RunID, second.RunID)
	}
	if differences := Compare(first, second); len(differences) != 0 {
		t.Errorf("Compare reported %v", differences)
	}
}

func TestRunIDSensitivity(t *testing.T) {
	base, err := Build(testRequest())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		name   string
		field  string
		mutate func(*Request)
	}{
		{"version", "version", func(r *Request) { r.Version = "1.0.1" }},
		{"input hash", "inputs[0].hash", func(r *Request) { r.Inputs[0].Hash = digest.Input([]byte("other")) }},
		{"input path", "inputs[1].path", func(r *Request) {
			r.Inputs[1].Path = "data/c.txt"
			r.Artifacts[1].Input = "data/c.txt"
			r.Storage.Files[1].Input = "data/c.txt"
		}},
		{"config hash", "config_hash", func(r *Request) { r.ConfigHash = digest.Config([]byte("other")) }},
		{"config seed", "config", func(r *Request) { r.Config.Seed = 8 }},
		{"artifact size", "artifacts[1].size", func(r *Request) { r.Artifacts[1].Size = 7 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			request := testRequest()
			test.mutate(&request)
			record, err := Build(request)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if record.RunID == base.RunID {
				t.Error("run ID did not change")
			}
			differences := Compare(base, record)
			var found bool
			for _, difference := range differences {
				if difference.Field == test.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Compare = %v, want a difference on %q", differences, test.field)
			}
		})
	}
}

func TestCompareLengthMismatch(t *testing.T) {
	left, err := Build(testRequest())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	request := testRequest()
	request.Inputs = request.Inputs[:1]
	request.Artifacts = request.Artifacts[:1]
	request.Storage.Files = request.Storage.Files[:1]
	right, err := Build(request)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	differences := Compare(left, right)
	want := map[string]bool{"run_id": false, "inputs.length": false, "artifacts.length": false}
	for _, difference := range differences {
		if _, ok := want[difference.Field]; ok {
			want[difference.Field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("missing difference on %q in %v", field, differences)
		}
	}
}

func TestMarshalParse(t *testing.T) {
	record, err := Build(testRequest())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.HasSuffix(data, []byte("}\n")) {
		t.Errorf("serialized record does not end with a newline")
	}
	for _, key := range []string{`"run_id"`, `"deterministic"`, `"storage"`, `"audit"`, `"timestamp_utc"`, `"hash_algorithm": "blake3-keyed-256"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("serialized record missing %s", key)
		}
	}

	again, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("Marshal is not stable")
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if differences := Compare(record, parsed); len(differences) != 0 {
		t.Errorf("round trip differences: %v", differences)
	}
	if !parsed.Audit.Timestamp.Equal(record.Audit.Timestamp) {
		t.Errorf("timestamp = %v, want %v", parsed.Audit.Timestamp, record.Audit.Timestamp)
	}
}

func TestParseRejects(t *testing.T) {
	record, err := Build(testRequest())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	tests := []struct {
		name    string
		data    string
		message string
	}{
		{"not json", "{", "parsing provenance"},
		{"wrong format", strings.Replace(string(data), FormatV1, "detpipe.provenance/v0", 1), "unsupported provenance format"},
		{"tampered version", strings.Replace(string(data), `"version": "1.0.0"`, `"version": "1.0.9"`, 1), "does not match"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.data))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if !strings.Contains(err.Error(), test.message) {
				t.Errorf("error = %q, want substring %q", err, test.message)
			}
		})
	}
}

func TestCurrentEnvironment(t *testing.T) {
	environment := CurrentEnvironment()
	if environment.GoVersion == "" || environment.OS == "" || environment.Arch == "" {
		t.Errorf("incomplete environment: %+v", environment)
	}
	if environment.CPUs < 1 {
		t.Errorf("CPUs = %d", environment.CPUs)
	}
}
