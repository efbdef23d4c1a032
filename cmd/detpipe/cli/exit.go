// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError reports a non-zero exit status for an outcome the command
// has already printed (a failed check, differing records). main exits
// with Code and prints nothing further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the process exit status.
func (e *ExitError) ExitCode() int {
	return e.Code
}
