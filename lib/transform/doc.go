// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transform is detpipe's transform engine: a closed family of
// pure byte transforms selected by identifier.
//
// Each member of the family is a struct implementing the sealed [Spec]
// interface and carries only its own parameters. [Parse] turns an
// identifier and a raw parameter map into a Spec (rejecting unknown
// identifiers and parameters), and [Apply] dispatches on the Spec with
// a single exhaustive type switch.
//
// Transforms are total functions of (input bytes, Settings). They do
// not read files, the environment, the clock, or any unseeded random
// source, and they never alias or modify the input slice. The same
// bytes and Settings produce the same output in every process.
//
// Family:
//
//	noop           output equals input
//	upper          Unicode full upper-case mapping (UTF-8 input)
//	lower          Unicode full lower-case mapping (UTF-8 input)
//	replace        replace every occurrence of params.old with params.new
//	normalize      Unicode normalization to params.form (NFC, NFD, NFKC, NFKD)
//	shuffle_lines  seeded Fisher-Yates permutation of newline-separated lines
//	markdown       CommonMark + GFM rendered to an HTML fragment (UTF-8 input)
//	highlight      source code tokenised by params.lexer, rendered as HTML
//	               with CSS classes (UTF-8 input)
//
// Case mapping and normalization use golang.org/x/text with the
// language-neutral tag, so results never depend on the host locale.
// Their Unicode tables are those of the x/text version pinned in
// go.mod. Likewise markdown output is fixed by the goldmark version and
// highlight output by the chroma version and its lexer definitions.
package transform
