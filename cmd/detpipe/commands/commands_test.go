// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/process"
	"github.com/bureau-foundation/detpipe/lib/testutil"
)

type invocation struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	code   int
}

func execute(t *testing.T, args ...string) *invocation {
	t.Helper()
	result := &invocation{}
	streams := cli.Streams{Stdout: &result.stdout, Stderr: &result.stderr}
	err := Root(streams).Execute(context.Background(), args)
	result.code = process.ExitCode(err, &result.stderr)
	return result
}

func TestRunCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	hello := testutil.WriteFile(t, dir, "hello.txt", "hello")
	configPath := testutil.WriteFile(t, dir, "upper.json", "// uppercase\n{\"seed\": 0, \"transform\": \"upper\",}\n")
	firstRoot := filepath.Join(dir, "first")
	secondRoot := filepath.Join(dir, "second")

	first := execute(t, "run", "--config", configPath, "--version", "1.0.0", "--out", firstRoot, "--json", hello)
	if first.code != process.ExitOK {
		t.Fatalf("run exit %d, stderr:\n%s", first.code, first.stderr.String())
	}
	var summary runSummary
	if err := json.Unmarshal(first.stdout.Bytes(), &summary); err != nil {
		t.Fatalf("decoding run summary: %v\n%s", err, first.stdout.String())
	}
	if summary.Transform != "upper" || len(summary.Artifacts) != 1 {
		t.Errorf("summary = %+v", summary)
	}
	data, err := os.ReadFile(filepath.Join(firstRoot, "artifacts", "hello.txt.processed"))
	if err != nil || string(data) != "HELLO" {
		t.Fatalf("artifact = %q, %v", data, err)
	}

	second := execute(t, "run", "-c", configPath, "--version", "1.0.0", "-o", secondRoot, "--compress", "lz4", "--inputs", hello)
	if second.code != process.ExitOK {
		t.Fatalf("second run exit %d, stderr:\n%s", second.code, second.stderr.String())
	}
	if !strings.Contains(second.stdout.String(), "run "+summary.RunID) {
		t.Errorf("second run output %q does not name run %s", second.stdout.String(), summary.RunID)
	}

	diff := execute(t, "diff", filepath.Join(firstRoot, "provenance.json"), filepath.Join(secondRoot, "provenance.json"))
	if diff.code != process.ExitOK || !strings.HasPrefix(diff.stdout.String(), "identical") {
		t.Errorf("diff exit %d, output %q", diff.code, diff.stdout.String())
	}

	for _, root := range []string{firstRoot, secondRoot} {
		check := execute(t, "check", root)
		if check.code != process.ExitOK || !strings.HasPrefix(check.stdout.String(), "ok: 1 artifacts") {
			t.Errorf("check %s exit %d, output %q", root, check.code, check.stdout.String())
		}
	}

	again := execute(t, "run", "-c", configPath, "--version", "1.0.0", "-o", firstRoot, hello)
	if again.code != process.ExitPipeline || !strings.Contains(again.stderr.String(), "error: OutputExists") {
		t.Errorf("rerun exit %d, stderr %q", again.code, again.stderr.String())
	}
}

func TestRunCommandFailures(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "in.txt", "x")
	configPath := testutil.WriteFile(t, dir, "c.json", `{"transform": "noop", "seed": 0}`)
	out := filepath.Join(dir, "out")

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"missing input", []string{"run", "-c", configPath, "--version", "1", "-o", out, filepath.Join(dir, "nope.txt")}, process.ExitPipeline, "error: InputNotFound"},
		{"missing config file", []string{"run", "-c", filepath.Join(dir, "nope.json"), "--version", "1", "-o", out, input}, process.ExitPipeline, "error: ConfigUnreadable"},
		{"no inputs", []string{"run", "-c", configPath, "--version", "1", "-o", out}, process.ExitFailure, "at least one input"},
		{"no version", []string{"run", "-c", configPath, "-o", out, input}, process.ExitFailure, "--version is required"},
		{"bad compression", []string{"run", "-c", configPath, "--version", "1", "-o", out, "--compress", "gzip", input}, process.ExitFailure, "unknown compression"},
		{"bad log level", []string{"run", "-c", configPath, "--version", "1", "-o", out, "--log-level", "loud", input}, process.ExitFailure, "unknown log level"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := execute(t, test.args...)
			if result.code != test.code {
				t.Errorf("exit %d, want %d; stderr:\n%s", result.code, test.code, result.stderr.String())
			}
			if !strings.Contains(result.stderr.String(), test.stderr) {
				t.Errorf("stderr %q does not contain %q", result.stderr.String(), test.stderr)
			}
			testutil.RequireAbsent(t, out)
		})
	}
}

func TestDiffCommandReportsDifferences(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "in.txt", "data")
	configPath := testutil.WriteFile(t, dir, "c.yaml", "transform: lower\nseed: 1\n")
	for _, version := range []string{"1", "2"} {
		result := execute(t, "run", "-c", configPath, "--version", version, "-o", filepath.Join(dir, "v"+version), input)
		if result.code != process.ExitOK {
			t.Fatalf("run %s exit %d: %s", version, result.code, result.stderr.String())
		}
	}

	result := execute(t, "diff", "--json", filepath.Join(dir, "v1", "provenance.json"), filepath.Join(dir, "v2", "provenance.json"))
	if result.code != process.ExitFailure {
		t.Errorf("diff exit %d, want %d", result.code, process.ExitFailure)
	}
	if result.stderr.Len() != 0 {
		t.Errorf("diff printed an error line: %q", result.stderr.String())
	}
	var parsed diffResult
	if err := json.Unmarshal(result.stdout.Bytes(), &parsed); err != nil {
		t.Fatalf("decoding diff output: %v", err)
	}
	fields := map[string]bool{}
	for _, difference := range parsed.Differences {
		fields[difference.Field] = true
	}
	if parsed.Identical || !fields["version"] || !fields["run_id"] {
		t.Errorf("diff result = %+v", parsed)
	}
}

func TestDiffCommandIdenticalEmitsEmptyList(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "in.txt", "data")
	configPath := testutil.WriteFile(t, dir, "c.json", `{"transform": "upper", "seed": 0}`)
	root := filepath.Join(dir, "out")
	if result := execute(t, "run", "-c", configPath, "--version", "1", "-o", root, input); result.code != process.ExitOK {
		t.Fatalf("run exit %d: %s", result.code, result.stderr.String())
	}

	record := filepath.Join(root, "provenance.json")
	result := execute(t, "diff", "--json", record, record)
	if result.code != process.ExitOK {
		t.Fatalf("diff exit %d: %s", result.code, result.stderr.String())
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(result.stdout.Bytes(), &fields); err != nil {
		t.Fatalf("decoding diff output: %v", err)
	}
	if got := string(fields["differences"]); got != "[]" {
		t.Errorf("differences = %s, want []", got)
	}
}

func TestCheckCommandDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "in.txt", "data")
	configPath := testutil.WriteFile(t, dir, "c.json", `{"transform": "upper", "seed": 0}`)
	root := filepath.Join(dir, "out")
	if result := execute(t, "run", "-c", configPath, "--version", "1", "-o", root, input); result.code != process.ExitOK {
		t.Fatalf("run exit %d: %s", result.code, result.stderr.String())
	}
	if err := os.WriteFile(filepath.Join(root, "artifacts", "in.txt.processed"), []byte("DATA!"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := execute(t, "check", root)
	if result.code != process.ExitFailure {
		t.Errorf("check exit %d, want %d", result.code, process.ExitFailure)
	}
	if !strings.Contains(result.stdout.String(), "mismatch    artifacts/in.txt.processed") {
		t.Errorf("check output = %q", result.stdout.String())
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	jsonPath := testutil.WriteFile(t, dir, "a.json", `{"transform": "replace", "seed": 3, "params": {"old": "a", "new": "b"}}`)
	yamlPath := testutil.WriteFile(t, dir, "b.yaml", "params:\n  new: b\n  old: a\nseed: 3\ntransform: replace\n")

	var hashes []string
	for _, path := range []string{jsonPath, yamlPath} {
		result := execute(t, "config", "--json", path)
		if result.code != process.ExitOK {
			t.Fatalf("config %s exit %d: %s", path, result.code, result.stderr.String())
		}
		var summary configSummary
		if err := json.Unmarshal(result.stdout.Bytes(), &summary); err != nil {
			t.Fatalf("decoding config output: %v", err)
		}
		if summary.Transform != "replace" || summary.Document.Seed != 3 || summary.Diagnostic == "" {
			t.Errorf("summary = %+v", summary)
		}
		hashes = append(hashes, summary.Hash)
	}
	if hashes[0] != hashes[1] {
		t.Errorf("equivalent JSON and YAML configs hash differently: %s vs %s", hashes[0], hashes[1])
	}

	text := execute(t, "config", jsonPath)
	if !strings.Contains(text.stdout.String(), "hash:      "+hashes[0]) {
		t.Errorf("config text output = %q", text.stdout.String())
	}

	bad := execute(t, "config", testutil.WriteFile(t, dir, "bad.json", `{"transform": "upper", "seed": 0, "extra": 1}`))
	if bad.code != process.ExitPipeline || !strings.Contains(bad.stderr.String(), "error: ConfigUnknownKey") {
		t.Errorf("bad config exit %d, stderr %q", bad.code, bad.stderr.String())
	}
}

func TestHashCommand(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "x.txt", "content")

	result := execute(t, "hash", path)
	want := digest.Input([]byte("content")).String() + "  " + path + "\n"
	if result.code != process.ExitOK || result.stdout.String() != want {
		t.Errorf("hash output %q (exit %d), want %q", result.stdout.String(), result.code, want)
	}

	artifact := execute(t, "hash", "--artifact", path)
	if !strings.HasPrefix(artifact.stdout.String(), digest.Artifact([]byte("content")).String()) {
		t.Errorf("artifact hash output %q", artifact.stdout.String())
	}

	missing := execute(t, "hash", filepath.Join(dir, "absent"))
	if missing.code != process.ExitPipeline || !strings.Contains(missing.stderr.String(), "error: InputNotFound") {
		t.Errorf("missing file exit %d, stderr %q", missing.code, missing.stderr.String())
	}
}

func TestVersionCommand(t *testing.T) {
	result := execute(t, "version", "--json")
	var build map[string]any
	if err := json.Unmarshal(result.stdout.Bytes(), &build); err != nil {
		t.Fatalf("decoding version: %v", err)
	}
	if _, ok := build["version"]; !ok || result.code != process.ExitOK {
		t.Errorf("version output = %v (exit %d)", build, result.code)
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	result := execute(t, "chek")
	if result.code != process.ExitFailure || !strings.Contains(result.stderr.String(), `did you mean "check"?`) {
		t.Errorf("exit %d, stderr %q", result.code, result.stderr.String())
	}
}
