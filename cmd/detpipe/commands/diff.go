// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
	"github.com/bureau-foundation/detpipe/lib/process"
	"github.com/bureau-foundation/detpipe/lib/provenance"
)

type diffParams struct {
	cli.JSONOutput
}

type diffResult struct {
	Identical   bool                    `json:"identical"`
	LeftRunID   string                  `json:"left_run_id"`
	RightRunID  string                  `json:"right_run_id"`
	Differences []provenance.Difference `json:"differences"`
}

func diffCommand(streams cli.Streams) *cli.Command {
	var params diffParams
	command := &cli.Command{
		Name:    "diff",
		Summary: "Compare the deterministic sections of two provenance records",
		Description: `Compare two provenance records field by field over their deterministic
sections. Audit fields (timestamp, environment) and storage layout are
ignored.

Exits 0 when the records describe reproductions of the same run and 1
when they differ.`,
		Usage: "detpipe diff [--json] A.json B.json",
		Examples: []cli.Example{
			{
				Description: "Confirm a rebuild reproduced the original",
				Command:     "detpipe diff build-1/provenance.json build-2/provenance.json",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("diff", &params) },
	}
	command.Run = func(ctx context.Context, args []string) error {
		if len(args) != 2 {
			return command.UsageError("expected two provenance files, got %d arguments", len(args))
		}
		left, err := provenance.ReadFile(args[0])
		if err != nil {
			return err
		}
		right, err := provenance.ReadFile(args[1])
		if err != nil {
			return err
		}

		differences := provenance.Compare(left, right)
		if differences == nil {
			differences = []provenance.Difference{}
		}
		result := diffResult{
			Identical:   len(differences) == 0,
			LeftRunID:   left.RunID.String(),
			RightRunID:  right.RunID.String(),
			Differences: differences,
		}
		if done, err := params.EmitJSON(streams.Stdout, result); done {
			if err != nil {
				return err
			}
		} else if result.Identical {
			fmt.Fprintf(streams.Stdout, "identical: run %s\n", result.LeftRunID)
		} else {
			for _, difference := range differences {
				fmt.Fprintln(streams.Stdout, difference)
			}
		}

		if !result.Identical {
			return &cli.ExitError{Code: process.ExitFailure}
		}
		return nil
	}
	return command
}
