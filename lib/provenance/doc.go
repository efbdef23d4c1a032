// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package provenance assembles, serializes, and compares the record
// that ties a detpipe run's outputs to exactly what produced them.
//
// A [Record] has three sections with different guarantees:
//
//   - deterministic: pipeline version, transform identifier, hash
//     algorithm, config hash and canonical config document, the ordered
//     input list (path, hash, size) and the ordered artifact list (hash,
//     size of the transformed bytes). Two runs with identical input
//     bytes, config content, and version produce identical deterministic
//     sections. The run ID is the run-domain digest of this section's
//     canonical CBOR encoding.
//   - storage: how the writer laid out artifacts (compression, relative
//     file names). Reproducible for identical writer options, but not
//     part of the determinism contract.
//   - audit: UTC timestamp and execution environment. Expected to differ
//     between runs; recorded for auditing only.
//
// [Compare] checks only the deterministic section and run ID. Storage
// and audit fields never make two records unequal.
//
// [Build] is pure assembly: the caller supplies the timestamp and the
// environment (see [CurrentEnvironment]), so the package performs no
// I/O except in [ReadFile].
package provenance
