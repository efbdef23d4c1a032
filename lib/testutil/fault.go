// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"testing"

	"github.com/bureau-foundation/detpipe/lib/fault"
)

// RequireKind fails the test unless err carries a *fault.Error of the
// given kind, and returns that error for further checks.
//
//	pipelineError := testutil.RequireKind(t, err, fault.TransformFailed)
//	if pipelineError.Path != want { ... }
func RequireKind(t testing.TB, err error, kind fault.Kind) *fault.Error {
	t.Helper()
	var classified *fault.Error
	if !errors.As(err, &classified) {
		t.Fatalf("error = %v, want %s", err, kind)
	}
	if classified.Kind != kind {
		t.Fatalf("error kind = %s (%v), want %s", classified.Kind, err, kind)
	}
	return classified
}
