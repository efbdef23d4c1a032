// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the content hashes that make up a detpipe
// run's identity.
//
// Every hash is a 32-byte BLAKE3 keyed hash. The key selects a domain
// (input, config, artifact, run) so that the same bytes hashed for
// different purposes never produce the same digest: an input file whose
// bytes happen to equal a canonical config cannot be mistaken for it in
// a provenance record.
//
// Digests render as 64 lowercase hex characters ([Digest.String]) and
// implement encoding.TextMarshaler, so they appear as hex in both JSON
// and CBOR.
//
// This package depends on no other detpipe packages.
package digest
