// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides detpipe's canonical CBOR encoding.
//
// detpipe uses two serialization formats with a clear boundary:
//
//   - JSON for anything a human reads or edits: the pipeline config file
//     (JSONC or YAML), provenance.json, and CLI --json output.
//   - CBOR for bytes that are hashed: the canonical config form and the
//     deterministic section of a provenance record that the run ID is
//     derived from.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical value always produces identical bytes, independent of
// the key order or whitespace of the document it was parsed from.
//
//	data, err := codec.Marshal(value)
//
// Nothing in detpipe decodes canonical bytes: they exist to be hashed
// and compared, and every persisted record is JSON.
//
// Types that implement encoding.TextMarshaler (digest.Digest) encode
// as CBOR text strings, so hashes appear as hex in diagnostic output.
package codec
