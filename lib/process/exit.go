// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/detpipe/lib/fault"
)

// Exit statuses. A classified pipeline failure is distinct from a usage
// mistake or an unexpected error so scripts can tell them apart.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitPipeline = 2
)

// ExitCode writes "error: err" to stderr when appropriate and returns
// the exit status for err. Errors with an ExitCode method have already
// been reported by the command that returned them and are not printed
// again.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	if _, ok := fault.KindOf(err); ok {
		return ExitPipeline
	}
	return ExitFailure
}
