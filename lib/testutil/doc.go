// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for detpipe packages:
// fixture files in a test's temporary directory and assertions on
// classified pipeline errors.
package testutil
