// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// detpipe applies a deterministic transform to a set of files and
// records the provenance of the result. Run "detpipe --help" for the
// command list.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
	"github.com/bureau-foundation/detpipe/cmd/detpipe/commands"
	"github.com/bureau-foundation/detpipe/lib/process"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	streams := cli.StandardStreams()
	err := commands.Root(streams).Execute(ctx, os.Args[1:])
	return process.ExitCode(err, streams.Stderr)
}
