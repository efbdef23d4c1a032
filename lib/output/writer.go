// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/fault"
	"github.com/bureau-foundation/detpipe/lib/provenance"
)

// Artifact is the transformed content for one input.
type Artifact struct {
	InputPath string
	Data      []byte
}

// Options control how [Write] stores a run.
type Options struct {
	Compression Compression

	// Overwrite replaces an existing artifact set and provenance
	// record instead of failing with OutputExists.
	Overwrite bool
}

// Written describes a committed output set.
type Written struct {
	Root       string
	Provenance string
	// Files are the artifact paths relative to Root, in input order.
	Files []string
	// StoredBytes is the total size of the artifact files on disk.
	StoredBytes int64
}

// Layout returns the storage section [Write] produces for inputPaths.
// The record passed to Write must carry exactly this section.
func Layout(inputPaths []string, compression Compression) provenance.Storage {
	files := make([]provenance.StoredFile, len(inputPaths))
	for i, inputPath := range inputPaths {
		files[i] = provenance.StoredFile{Input: inputPath, Path: ArtifactPath(inputPath, compression)}
	}
	return provenance.Storage{Compression: compression.String(), Files: files}
}

// Write persists artifacts and record under root. Either the complete
// set is committed or, on any failure before the commit, root is left
// as it was.
func Write(root string, artifacts []Artifact, record *provenance.Record, options Options) (*Written, error) {
	if err := validateWrite(artifacts, record, options); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fault.ForPath(fault.WriteFailure, root, err)
	}
	artifactsPath := filepath.Join(root, ArtifactsDir)
	provenancePath := filepath.Join(root, ProvenanceFile)
	var existing []string
	for _, target := range []string{artifactsPath, provenancePath} {
		present, err := exists(target)
		if err != nil {
			return nil, fault.ForPath(fault.WriteFailure, target, err)
		}
		if present {
			if !options.Overwrite {
				return nil, fault.ForPath(fault.OutputExists, target,
					errors.New("previous output present; pass overwrite to replace it"))
			}
			existing = append(existing, target)
		}
	}

	stage, err := os.MkdirTemp(root, ".detpipe-stage-")
	if err != nil {
		return nil, fault.ForPath(fault.WriteFailure, root, fmt.Errorf("creating staging directory: %w", err))
	}
	defer os.RemoveAll(stage)

	written := &Written{Root: root, Provenance: provenancePath}
	if err := os.Mkdir(filepath.Join(stage, ArtifactsDir), 0o755); err != nil {
		return nil, fault.ForPath(fault.WriteFailure, stage, err)
	}
	for _, artifact := range artifacts {
		stored, err := encode(artifact.Data, options.Compression)
		if err != nil {
			return nil, fault.ForPath(fault.WriteFailure, artifact.InputPath, err)
		}
		relative := ArtifactPath(artifact.InputPath, options.Compression)
		if err := writeFileSynced(filepath.Join(stage, filepath.FromSlash(relative)), stored); err != nil {
			return nil, fault.ForPath(fault.WriteFailure, filepath.Join(root, filepath.FromSlash(relative)), err)
		}
		written.Files = append(written.Files, relative)
		written.StoredBytes += int64(len(stored))
	}

	serialized, err := provenance.Marshal(record)
	if err != nil {
		return nil, fault.ForPath(fault.WriteFailure, provenancePath, err)
	}
	if err := writeFileSynced(filepath.Join(stage, ProvenanceFile), serialized); err != nil {
		return nil, fault.ForPath(fault.WriteFailure, provenancePath, err)
	}

	if err := commit(root, stage, existing); err != nil {
		return nil, err
	}
	return written, nil
}

func validateWrite(artifacts []Artifact, record *provenance.Record, options Options) error {
	if len(artifacts) == 0 {
		return fault.New(fault.InvalidRequest, "no artifacts to write")
	}
	if record == nil {
		return fault.New(fault.InvalidRequest, "provenance record is missing")
	}
	if options.Compression.Extension() == "" && options.Compression != CompressionNone {
		return fault.New(fault.InvalidRequest, "unsupported compression %s", options.Compression)
	}

	inputPaths := make([]string, len(artifacts))
	names := make(map[string]string, len(artifacts))
	for i, artifact := range artifacts {
		name := ArtifactName(artifact.InputPath, options.Compression)
		if previous, ok := names[name]; ok {
			return fault.New(fault.InvalidRequest, "inputs %q and %q both map to artifact %s",
				previous, artifact.InputPath, name)
		}
		names[name] = artifact.InputPath
		inputPaths[i] = artifact.InputPath
	}

	want := Layout(inputPaths, options.Compression)
	if record.Storage.Compression != want.Compression || len(record.Storage.Files) != len(want.Files) {
		return fault.New(fault.InvalidRequest, "provenance storage section does not describe this write")
	}
	for i, file := range want.Files {
		if record.Storage.Files[i] != file {
			return fault.New(fault.InvalidRequest, "provenance stored file %d is %+v, want %+v",
				i, record.Storage.Files[i], file)
		}
	}

	entries := record.Deterministic.Artifacts
	if len(entries) != len(artifacts) {
		return fault.New(fault.InvalidRequest, "provenance lists %d artifacts, writing %d",
			len(entries), len(artifacts))
	}
	for i, artifact := range artifacts {
		entry := entries[i]
		if entry.Input != artifact.InputPath {
			return fault.New(fault.InvalidRequest, "provenance artifact %d is for %q, writing %q",
				i, entry.Input, artifact.InputPath)
		}
		if entry.Size != int64(len(artifact.Data)) {
			return fault.New(fault.InvalidRequest, "artifact for %s is %d bytes, provenance records %d",
				artifact.InputPath, len(artifact.Data), entry.Size)
		}
		if actual := digest.Artifact(artifact.Data); actual != entry.Hash {
			return fault.New(fault.InvalidRequest, "artifact for %s hashes to %s, provenance records %s",
				artifact.InputPath, actual, entry.Hash)
		}
	}
	return nil
}

// commit moves the staged set into root. Previous output listed in
// existing is first moved into the staging directory, where the
// deferred cleanup in Write removes it. If installing the new artifacts
// fails, the previous set is moved back.
func commit(root, stage string, existing []string) error {
	var displaced [][2]string
	for i, target := range existing {
		parked := filepath.Join(stage, fmt.Sprintf("previous-%d", i))
		if err := os.Rename(target, parked); err != nil {
			restore(displaced)
			return fault.ForPath(fault.WriteFailure, target, fmt.Errorf("moving previous output aside: %w", err))
		}
		displaced = append(displaced, [2]string{parked, target})
	}

	artifactsPath := filepath.Join(root, ArtifactsDir)
	if err := os.Rename(filepath.Join(stage, ArtifactsDir), artifactsPath); err != nil {
		restore(displaced)
		return fault.ForPath(fault.WriteFailure, artifactsPath, err)
	}
	provenancePath := filepath.Join(root, ProvenanceFile)
	if err := os.Rename(filepath.Join(stage, ProvenanceFile), provenancePath); err != nil {
		return fault.ForPath(fault.WriteFailure, provenancePath,
			fmt.Errorf("artifacts committed without provenance: %w", err))
	}
	return syncDirectory(root)
}

func restore(displaced [][2]string) {
	for _, move := range displaced {
		os.Rename(move[0], move[1])
	}
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func writeFileSynced(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func syncDirectory(path string) error {
	directory, err := os.Open(path)
	if err != nil {
		return fault.ForPath(fault.WriteFailure, path, err)
	}
	defer directory.Close()
	if err := directory.Sync(); err != nil {
		return fault.ForPath(fault.WriteFailure, path, err)
	}
	return nil
}
