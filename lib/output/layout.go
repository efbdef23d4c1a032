// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"path"
	"path/filepath"
)

const (
	// ArtifactsDir is the directory under the output root holding one
	// file per input.
	ArtifactsDir = "artifacts"

	// ProvenanceFile is the provenance record's name under the output
	// root.
	ProvenanceFile = "provenance.json"

	artifactSuffix = ".processed"
)

// ArtifactName returns the artifact file name for inputPath: the
// input's base name plus ".processed" and the compression extension.
func ArtifactName(inputPath string, compression Compression) string {
	return filepath.Base(inputPath) + artifactSuffix + compression.Extension()
}

// ArtifactPath returns the artifact's location relative to the output
// root, with forward slashes, as recorded in provenance.
func ArtifactPath(inputPath string, compression Compression) string {
	return path.Join(ArtifactsDir, ArtifactName(inputPath, compression))
}
