// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fault

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "path",
			err:  ForPath(InputNotFound, "data/a.txt", fs.ErrNotExist),
			want: "InputNotFound data/a.txt: file does not exist",
		},
		{
			name: "key",
			err:  ForKey(ConfigMissingKey, "seed", errors.New("required key is absent")),
			want: `ConfigMissingKey key "seed": required key is absent`,
		},
		{
			name: "bare",
			err:  New(InvalidRequest, "no input files provided"),
			want: "InvalidRequest: no input files provided",
		},
		{
			name: "kind only",
			err:  &Error{Kind: WriteFailure},
			want: "WriteFailure",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	inner := ForPath(InputUnreadable, "x", fs.ErrPermission)
	wrapped := fmt.Errorf("resolving inputs: %w", inner)

	kind, ok := KindOf(wrapped)
	if !ok || kind != InputUnreadable {
		t.Errorf("KindOf = (%q, %v), want (%q, true)", kind, ok, InputUnreadable)
	}
	if !Is(wrapped, InputUnreadable) {
		t.Error("Is(wrapped, InputUnreadable) = false")
	}
	if Is(wrapped, InputNotFound) {
		t.Error("Is(wrapped, InputNotFound) = true")
	}
	if !errors.Is(wrapped, fs.ErrPermission) {
		t.Error("cause not reachable through errors.Is")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if kind, ok := KindOf(errors.New("plain")); ok {
		t.Errorf("KindOf(plain) = %q, want not ok", kind)
	}
	if Is(nil, InputNotFound) {
		t.Error("Is(nil) = true")
	}
}

func TestWithPath(t *testing.T) {
	bare := New(TransformFailed, "input is not valid UTF-8 at byte 3")
	withPath := WithPath(bare, "in/a.txt")
	if got, want := withPath.Error(), "TransformFailed in/a.txt: input is not valid UTF-8 at byte 3"; got != want {
		t.Errorf("WithPath Error() = %q, want %q", got, want)
	}
	if bare.Path != "" {
		t.Error("WithPath mutated the original error")
	}

	named := ForPath(InputNotFound, "first", fs.ErrNotExist)
	if WithPath(named, "second") != error(named) {
		t.Error("WithPath replaced an existing path")
	}

	plain := errors.New("plain")
	if WithPath(plain, "x") != plain {
		t.Error("WithPath changed an unclassified error")
	}
}
