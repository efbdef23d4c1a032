// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fault defines the error taxonomy of a detpipe run.
//
// Every failure a pipeline stage reports is a *[Error] carrying a
// [Kind] plus the path or config key it concerns, so that a single
// diagnostic line identifies what to fix without re-running. None of
// the kinds are transient: the pipeline is local computation and never
// retries.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// InputNotFound: an input path does not exist.
	InputNotFound Kind = "InputNotFound"

	// InputUnreadable: an input exists but is not a readable regular file.
	InputUnreadable Kind = "InputUnreadable"

	// InputDuplicate: two inputs name the same file, or share a base
	// name and would collide in the artifact layout.
	InputDuplicate Kind = "InputDuplicate"

	// ConfigUnreadable: the config file is missing or cannot be read.
	ConfigUnreadable Kind = "ConfigUnreadable"

	// ConfigMalformed: the config file is not valid JSON/JSONC/YAML, or
	// its top level is not an object.
	ConfigMalformed Kind = "ConfigMalformed"

	// ConfigMissingKey: a required config key is absent.
	ConfigMissingKey Kind = "ConfigMissingKey"

	// ConfigInvalidValue: a config key has the wrong type or an
	// out-of-range value.
	ConfigInvalidValue Kind = "ConfigInvalidValue"

	// ConfigUnknownKey: the config carries a key the schema does not
	// declare.
	ConfigUnknownKey Kind = "ConfigUnknownKey"

	// UnknownTransform: the transform identifier names no member of the
	// transform family.
	UnknownTransform Kind = "UnknownTransform"

	// TransformFailed: a transform rejected its input bytes (for
	// example, invalid UTF-8 for a text transform).
	TransformFailed Kind = "TransformFailed"

	// OutputExists: the output root already holds an artifact set and
	// overwriting was not requested.
	OutputExists Kind = "OutputExists"

	// WriteFailure: persisting artifacts or provenance failed.
	WriteFailure Kind = "WriteFailure"

	// InvalidRequest: the invocation itself is incomplete (no inputs,
	// empty version, empty output root).
	InvalidRequest Kind = "InvalidRequest"
)

// Error is a classified pipeline failure.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Path is the file the failure concerns, if any.
	Path string

	// Key is the config key the failure concerns, if any. Nested keys
	// are dotted ("params.old").
	Key string

	// Err is the underlying cause.
	Err error
}

// Error renders "<Kind> <path> key "<key>": <cause>", omitting absent parts.
func (e *Error) Error() string {
	var builder strings.Builder
	builder.WriteString(string(e.Kind))
	if e.Path != "" {
		builder.WriteByte(' ')
		builder.WriteString(e.Path)
	}
	if e.Key != "" {
		fmt.Fprintf(&builder, " key %q", e.Key)
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}
	return builder.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind with a formatted cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// ForPath creates an Error about a file.
func ForPath(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// ForKey creates an Error about a config key. Config parsing never
// sees the file name; [WithPath] attaches it at the load boundary.
func ForKey(kind Kind, key string, err error) *Error {
	return &Error{Kind: kind, Key: key, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind, true
	}
	return "", false
}

// Is reports whether err's chain contains an *Error of the given kind.
func Is(err error, kind Kind) bool {
	found, ok := KindOf(err)
	return ok && found == kind
}

// WithPath returns err with Path filled in when err is an *Error that
// does not yet name a file. Components that never see paths (the
// transform engine) report kind and cause; their callers attach the
// path. Any other error is returned unchanged.
func WithPath(err error, path string) error {
	var classified *Error
	if !errors.As(err, &classified) || classified.Path != "" {
		return err
	}
	copied := *classified
	copied.Path = path
	return &copied
}
