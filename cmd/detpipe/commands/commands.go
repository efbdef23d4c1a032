// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the detpipe command tree.
package commands

import (
	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
)

// Root builds the detpipe command tree writing to streams.
func Root(streams cli.Streams) *cli.Command {
	return &cli.Command{
		Name: "detpipe",
		Description: `detpipe: deterministic content-transformation pipeline.

Applies a configured transform to a set of input files and writes the
transformed artifacts together with a provenance record. Identical input
bytes, config content, and pipeline version always produce byte-identical
artifacts and an identical deterministic provenance section.`,
		Streams: streams,
		Subcommands: []*cli.Command{
			runCommand(streams),
			configCommand(streams),
			hashCommand(streams),
			diffCommand(streams),
			checkCommand(streams),
			versionCommand(streams),
		},
	}
}
