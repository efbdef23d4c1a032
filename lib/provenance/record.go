// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bureau-foundation/detpipe/lib/codec"
	"github.com/bureau-foundation/detpipe/lib/config"
	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/fault"
	"github.com/bureau-foundation/detpipe/lib/input"
)

// FormatV1 tags serialized records. Parse rejects any other value.
const FormatV1 = "detpipe.provenance/v1"

// DeterministicScope documents which invocation inputs the
// deterministic section is a function of.
const DeterministicScope = "inputs + config + version"

// Record is the provenance of one run. It is written once and never
// modified.
type Record struct {
	Format        string        `json:"format"`
	RunID         digest.Digest `json:"run_id"`
	Scope         string        `json:"deterministic_scope"`
	Deterministic Deterministic `json:"deterministic"`
	Storage       Storage       `json:"storage"`
	Audit         Audit         `json:"audit"`
}

// Deterministic holds every field covered by the determinism contract.
type Deterministic struct {
	Version       string          `json:"version"`
	Transform     string          `json:"transform"`
	HashAlgorithm string          `json:"hash_algorithm"`
	ConfigHash    digest.Digest   `json:"config_hash"`
	Config        config.Document `json:"config"`
	Inputs        []Input         `json:"inputs"`
	Artifacts     []Artifact      `json:"artifacts"`
}

// Input identifies one input file by path and content.
type Input struct {
	Path string        `json:"path"`
	Hash digest.Digest `json:"hash"`
	Size int64         `json:"size"`
}

// Artifact identifies the transformed bytes produced from one input.
// Hash is computed before any storage compression.
type Artifact struct {
	Input string        `json:"input"`
	Hash  digest.Digest `json:"hash"`
	Size  int64         `json:"size"`
}

// Storage describes where and how the writer stored artifacts.
type Storage struct {
	Compression string       `json:"compression"`
	Files       []StoredFile `json:"files"`
}

// StoredFile maps an input to its artifact file, relative to the output
// root with forward slashes.
type StoredFile struct {
	Input string `json:"input"`
	Path  string `json:"path"`
}

// Audit holds fields excluded from every equality check.
type Audit struct {
	Timestamp   time.Time   `json:"timestamp_utc"`
	Environment Environment `json:"environment"`
}

// Request carries everything [Build] assembles into a Record.
type Request struct {
	Inputs      []Input
	ConfigHash  digest.Digest
	Config      config.Document
	Transform   string
	Version     string
	Artifacts   []Artifact
	Storage     Storage
	Timestamp   time.Time
	Environment Environment
}

// InputsFrom converts resolved input files to provenance entries,
// preserving order.
func InputsFrom(files []input.File) []Input {
	inputs := make([]Input, len(files))
	for i, file := range files {
		inputs[i] = Input{Path: file.Path, Hash: file.Hash, Size: file.Size()}
	}
	return inputs
}

// Build assembles a Record from request. The input order of request is
// preserved. Artifacts and storage files, when present, must list the
// inputs in the same order. Build copies every slice it keeps.
func Build(request Request) (*Record, error) {
	version := strings.TrimSpace(request.Version)
	if version == "" {
		return nil, fault.New(fault.InvalidRequest, "pipeline version must be non-empty")
	}
	if request.Transform == "" {
		return nil, fault.New(fault.InvalidRequest, "transform identifier must be non-empty")
	}
	if len(request.Inputs) == 0 {
		return nil, fault.New(fault.InvalidRequest, "provenance requires at least one input")
	}
	if request.ConfigHash.IsZero() {
		return nil, fault.New(fault.InvalidRequest, "config hash is missing")
	}
	if err := checkAligned(request); err != nil {
		return nil, fault.New(fault.InvalidRequest, "%v", err)
	}

	deterministic := Deterministic{
		Version:       version,
		Transform:     request.Transform,
		HashAlgorithm: digest.Algorithm,
		ConfigHash:    request.ConfigHash,
		Config:        copyDocument(request.Config),
		Inputs:        append(make([]Input, 0, len(request.Inputs)), request.Inputs...),
		Artifacts:     append(make([]Artifact, 0, len(request.Artifacts)), request.Artifacts...),
	}
	runID, err := ComputeRunID(deterministic)
	if err != nil {
		return nil, err
	}

	return &Record{
		Format:        FormatV1,
		RunID:         runID,
		Scope:         DeterministicScope,
		Deterministic: deterministic,
		Storage: Storage{
			Compression: request.Storage.Compression,
			Files:       append(make([]StoredFile, 0, len(request.Storage.Files)), request.Storage.Files...),
		},
		Audit: Audit{
			Timestamp:   request.Timestamp.UTC(),
			Environment: request.Environment,
		},
	}, nil
}

// ComputeRunID returns the run-domain digest of the canonical CBOR
// encoding of deterministic.
func ComputeRunID(deterministic Deterministic) (digest.Digest, error) {
	canonical, err := codec.Marshal(deterministic)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("encoding deterministic section: %w", err)
	}
	return digest.Run(canonical), nil
}

// Validate checks that the record is a well-formed v1 record whose run
// ID matches its deterministic section.
func (r *Record) Validate() error {
	if r.Format != FormatV1 {
		return fmt.Errorf("unsupported provenance format %q (want %q)", r.Format, FormatV1)
	}
	if len(r.Deterministic.Inputs) == 0 {
		return errors.New("record lists no inputs")
	}
	runID, err := ComputeRunID(r.Deterministic)
	if err != nil {
		return err
	}
	if runID != r.RunID {
		return fmt.Errorf("run_id %s does not match deterministic section (computed %s)", r.RunID, runID)
	}
	return nil
}

func checkAligned(request Request) error {
	if len(request.Artifacts) > 0 {
		if len(request.Artifacts) != len(request.Inputs) {
			return fmt.Errorf("%d artifacts for %d inputs", len(request.Artifacts), len(request.Inputs))
		}
		for i, artifact := range request.Artifacts {
			if artifact.Input != request.Inputs[i].Path {
				return fmt.Errorf("artifact %d is for %q, want %q", i, artifact.Input, request.Inputs[i].Path)
			}
		}
	}
	if len(request.Storage.Files) > 0 {
		if len(request.Storage.Files) != len(request.Inputs) {
			return fmt.Errorf("%d stored files for %d inputs", len(request.Storage.Files), len(request.Inputs))
		}
		for i, file := range request.Storage.Files {
			if file.Input != request.Inputs[i].Path {
				return fmt.Errorf("stored file %d is for %q, want %q", i, file.Input, request.Inputs[i].Path)
			}
		}
	}
	return nil
}

func copyDocument(document config.Document) config.Document {
	copied := config.Document{Transform: document.Transform, Seed: document.Seed}
	if len(document.Params) > 0 {
		copied.Params = make(map[string]string, len(document.Params))
		for key, value := range document.Params {
			copied.Params[key] = value
		}
	}
	return copied
}
