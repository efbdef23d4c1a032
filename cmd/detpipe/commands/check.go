// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
	"github.com/bureau-foundation/detpipe/lib/output"
	"github.com/bureau-foundation/detpipe/lib/process"
)

type checkParams struct {
	cli.JSONOutput
}

func checkCommand(streams cli.Streams) *cli.Command {
	var params checkParams
	command := &cli.Command{
		Name:    "check",
		Summary: "Verify an output directory against its provenance",
		Description: `Re-read every artifact under DIR, decompress it if needed, re-hash it,
and compare against DIR/provenance.json. Also reports artifact files the
record does not list.

Exits 0 when everything matches and 1 otherwise.`,
		Usage: "detpipe check [--json] DIR",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("check", &params) },
	}
	command.Run = func(ctx context.Context, args []string) error {
		if len(args) != 1 {
			return command.UsageError("expected one output directory, got %d arguments", len(args))
		}
		report, err := output.Check(args[0])
		if err != nil {
			return err
		}

		if done, err := params.EmitJSON(streams.Stdout, report); done {
			if err != nil {
				return err
			}
		} else {
			for _, path := range report.Missing {
				fmt.Fprintf(streams.Stdout, "missing     %s\n", path)
			}
			for _, mismatch := range report.Mismatched {
				if mismatch.Detail != "" {
					fmt.Fprintf(streams.Stdout, "unreadable  %s: %s\n", mismatch.Path, mismatch.Detail)
					continue
				}
				fmt.Fprintf(streams.Stdout, "mismatch    %s: hash %s (want %s), size %d (want %d)\n",
					mismatch.Path, mismatch.ActualHash, mismatch.ExpectedHash, mismatch.ActualSize, mismatch.ExpectedSize)
			}
			for _, path := range report.Unexpected {
				fmt.Fprintf(streams.Stdout, "unexpected  %s\n", path)
			}
			if report.OK() {
				fmt.Fprintf(streams.Stdout, "ok: %d artifacts match run %s\n", report.Checked, report.RunID)
			}
		}

		if !report.OK() {
			return &cli.ExitError{Code: process.ExitFailure}
		}
		return nil
	}
	return command
}
