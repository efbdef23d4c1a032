// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint conventions shared by detpipe
// binaries: exit statuses and how a returned error is reported.
package process
