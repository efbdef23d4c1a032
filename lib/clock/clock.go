// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the wall clock for testability. The only
// time-dependent value detpipe produces is the audit timestamp of a
// provenance record; production code injects [Real], tests inject
// [Fake] to pin it.
//
// Transform code must never take a Clock: outputs may not depend on
// time.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
