// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package output persists a run's artifacts and provenance record under
// an output root and verifies previously written roots.
//
// Layout:
//
//	<root>/
//	  artifacts/<input base name>.processed[.zst|.lz4]
//	  provenance.json
//
// [Write] stages the complete set in a temporary directory inside the
// root and moves it into place only after every file is written and
// synced. A pre-existing set is an [fault.OutputExists] error unless
// overwriting was requested.
//
// Artifact files may be stored compressed (zstd or LZ4 frames). The
// artifact hashes in the provenance record always cover the
// uncompressed bytes, so [Check] decodes each stored file before
// re-hashing it.
package output
