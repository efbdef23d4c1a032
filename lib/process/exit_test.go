// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bureau-foundation/detpipe/lib/fault"
)

type handledExit struct{ code int }

func (e handledExit) Error() string { return "handled" }
func (e handledExit) ExitCode() int { return e.code }

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		printed string
	}{
		{"nil", nil, ExitOK, ""},
		{"handled", handledExit{code: 1}, 1, ""},
		{"wrapped handled", fmt.Errorf("diff: %w", handledExit{code: 3}), 3, ""},
		{"pipeline", fault.ForPath(fault.InputNotFound, "a.txt", errors.New("no such file")), ExitPipeline, "error: InputNotFound a.txt: no such file\n"},
		{"joined pipeline", errors.Join(errors.New("context"), fault.New(fault.WriteFailure, "disk full")), ExitPipeline, "error: context\nWriteFailure: disk full\n"},
		{"unclassified", errors.New("boom"), ExitFailure, "error: boom\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if code := ExitCode(test.err, &stderr); code != test.code {
				t.Errorf("ExitCode = %d, want %d", code, test.code)
			}
			if stderr.String() != test.printed {
				t.Errorf("stderr = %q, want %q", stderr.String(), test.printed)
			}
			if test.printed == "" && strings.Contains(stderr.String(), "error") {
				t.Error("handled exit printed an error line")
			}
		})
	}
}
