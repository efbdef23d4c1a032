// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads, validates, and canonicalizes detpipe pipeline
// configuration.
//
// Configuration comes from exactly one file named by the caller. There
// are no defaults, no environment overrides, and no file discovery: a
// run is fully described by the file's content.
//
// Files ending in .yaml or .yml are parsed as YAML; every other file is
// parsed as JSON extended with comments and trailing commas (JSONC).
// Both formats feed the same explicit schema:
//
//	transform  string   required  identifier of a transform.Kind
//	seed       integer  required  recorded and hashed even when unused
//	params     object   required iff the transform declares parameters
//
// Unknown keys are rejected. Each failure is a *fault.Error whose kind
// distinguishes malformed syntax, a missing key, an invalid value, an
// unknown key, and an unknown transform.
//
// A loaded [Config] is immutable. Its canonical form is the CBOR Core
// Deterministic Encoding of the validated [Document]: semantically
// identical files (any key order, any formatting, JSON or YAML) produce
// byte-identical canonical bytes and therefore the same [Config.Hash].
package config
