// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
	"github.com/bureau-foundation/detpipe/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

func versionCommand(streams cli.Streams) *cli.Command {
	var params versionParams
	return &cli.Command{
		Name:    "version",
		Summary: "Print the detpipe build version",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("version", &params) },
		Run: func(ctx context.Context, args []string) error {
			if done, err := params.EmitJSON(streams.Stdout, version.Current()); done {
				return err
			}
			fmt.Fprintln(streams.Stdout, version.Full())
			return nil
		},
	}
}
