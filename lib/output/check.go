// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/provenance"
)

// Report is the result of [Check].
type Report struct {
	Root       string        `json:"root"`
	RunID      digest.Digest `json:"run_id"`
	Checked    int           `json:"checked"`
	Missing    []string      `json:"missing,omitempty"`
	Mismatched []Mismatch    `json:"mismatched,omitempty"`
	Unexpected []string      `json:"unexpected,omitempty"`
}

// Mismatch is a stored artifact whose decoded content does not match
// its provenance entry.
type Mismatch struct {
	Path         string        `json:"path"`
	ExpectedHash digest.Digest `json:"expected_hash"`
	ActualHash   digest.Digest `json:"actual_hash"`
	ExpectedSize int64         `json:"expected_size"`
	ActualSize   int64         `json:"actual_size"`
	// Detail is set when the file could not be decoded at all.
	Detail string `json:"detail,omitempty"`
}

// OK reports whether every artifact is present, intact, and expected.
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Mismatched) == 0 && len(r.Unexpected) == 0
}

// Check verifies the output set under root against its provenance
// record. The returned error covers only problems that prevent checking
// (unreadable or invalid record); content problems are in the Report.
func Check(root string) (*Report, error) {
	record, err := provenance.ReadFile(filepath.Join(root, ProvenanceFile))
	if err != nil {
		return nil, err
	}
	compression, err := ParseCompression(record.Storage.Compression)
	if err != nil {
		return nil, fmt.Errorf("provenance storage section: %w", err)
	}
	files := record.Storage.Files
	artifacts := record.Deterministic.Artifacts
	if len(files) != len(artifacts) {
		return nil, fmt.Errorf("provenance lists %d stored files for %d artifacts", len(files), len(artifacts))
	}

	report := &Report{Root: root, RunID: record.RunID}
	expected := make(map[string]bool, len(files))
	for i, file := range files {
		if !filepath.IsLocal(filepath.FromSlash(file.Path)) || path.Dir(file.Path) != ArtifactsDir {
			return nil, fmt.Errorf("provenance stored file %q is outside %s/", file.Path, ArtifactsDir)
		}
		expected[path.Base(file.Path)] = true
		report.Checked++

		hash, size, err := hashStored(filepath.Join(root, filepath.FromSlash(file.Path)), compression)
		if errors.Is(err, fs.ErrNotExist) {
			report.Missing = append(report.Missing, file.Path)
			continue
		}
		want := artifacts[i]
		if err != nil {
			report.Mismatched = append(report.Mismatched, Mismatch{
				Path: file.Path, ExpectedHash: want.Hash, ExpectedSize: want.Size, Detail: err.Error(),
			})
			continue
		}
		if hash != want.Hash || size != want.Size {
			report.Mismatched = append(report.Mismatched, Mismatch{
				Path: file.Path, ExpectedHash: want.Hash, ActualHash: hash,
				ExpectedSize: want.Size, ActualSize: size,
			})
		}
	}

	entries, err := os.ReadDir(filepath.Join(root, ArtifactsDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	for _, entry := range entries {
		if !expected[entry.Name()] {
			report.Unexpected = append(report.Unexpected, path.Join(ArtifactsDir, entry.Name()))
		}
	}
	sort.Strings(report.Unexpected)
	return report, nil
}

func hashStored(filePath string, compression Compression) (digest.Digest, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return digest.Digest{}, 0, err
	}
	defer file.Close()

	reader, err := decode(file, compression)
	if err != nil {
		return digest.Digest{}, 0, err
	}
	return digest.HashReader(digest.DomainArtifact, reader)
}
