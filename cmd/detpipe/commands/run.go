// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
	"github.com/bureau-foundation/detpipe/lib/output"
	"github.com/bureau-foundation/detpipe/lib/runner"
)

type runParams struct {
	cli.JSONOutput
	Inputs    []string `flag:"inputs,i" desc:"comma-separated input files (positional arguments are appended)"`
	Config    string   `flag:"config,c" desc:"pipeline config file (JSON, JSONC, or YAML)"`
	Version   string   `flag:"version" desc:"pipeline version recorded in provenance"`
	Out       string   `flag:"out,o" desc:"output root directory"`
	Workers   int      `flag:"workers,w" desc:"concurrent transforms (0 means one per CPU)"`
	Compress  string   `flag:"compress" desc:"artifact storage compression: none, zstd, or lz4" default:"none"`
	Overwrite bool     `flag:"overwrite" desc:"replace an existing artifact set and provenance record"`
	LogLevel  string   `flag:"log-level" desc:"debug, info, warn, or error" default:"info"`
}

type runSummary struct {
	RunID       string   `json:"run_id"`
	Root        string   `json:"root"`
	Provenance  string   `json:"provenance"`
	Transform   string   `json:"transform"`
	ConfigHash  string   `json:"config_hash"`
	Artifacts   []string `json:"artifacts"`
	StoredBytes int64    `json:"stored_bytes"`
}

func runCommand(streams cli.Streams) *cli.Command {
	var params runParams
	command := &cli.Command{
		Name:    "run",
		Summary: "Transform inputs and write artifacts with provenance",
		Description: `Resolve the inputs, load and canonicalize the config, apply the
transform to every input, and write artifacts/ and provenance.json under
the output root.

Stages run in a fixed order and the first failure stops the run before
anything is written. An existing output set is an error unless
--overwrite is given.`,
		Usage: "detpipe run --config FILE --version V --out DIR [flags] [input...]",
		Examples: []cli.Example{
			{
				Description: "Uppercase two files",
				Command:     "detpipe run --config upper.json --version 1.0.0 --out build a.txt b.txt",
			},
			{
				Description: "Store zstd-compressed artifacts, replacing a previous run",
				Command:     "detpipe run -c pipeline.yaml --version 2 -o out --compress zstd --overwrite data/*.txt",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("run", &params) },
	}
	command.Run = func(ctx context.Context, args []string) error {
		inputs := append(append([]string{}, params.Inputs...), args...)
		switch {
		case len(inputs) == 0:
			return command.UsageError("at least one input file is required")
		case params.Config == "":
			return command.UsageError("--config is required")
		case params.Version == "":
			return command.UsageError("--version is required")
		case params.Out == "":
			return command.UsageError("--out is required")
		}
		compression, err := output.ParseCompression(params.Compress)
		if err != nil {
			return command.UsageError("%v", err)
		}
		level, err := cli.ParseLevel(params.LogLevel)
		if err != nil {
			return command.UsageError("%v", err)
		}

		logger := cli.NewCommandLogger(streams.Stderr, level).With("command", "run")
		result, err := runner.New(logger).Run(ctx, runner.Request{
			Inputs:      inputs,
			ConfigPath:  params.Config,
			Version:     params.Version,
			OutputRoot:  params.Out,
			Workers:     params.Workers,
			Compression: compression,
			Overwrite:   params.Overwrite,
		})
		if err != nil {
			return err
		}

		summary := runSummary{
			RunID:       result.Record.RunID.String(),
			Root:        result.Written.Root,
			Provenance:  result.Written.Provenance,
			Transform:   result.Record.Deterministic.Transform,
			ConfigHash:  result.Record.Deterministic.ConfigHash.String(),
			Artifacts:   result.Written.Files,
			StoredBytes: result.Written.StoredBytes,
		}
		if done, err := params.EmitJSON(streams.Stdout, summary); done {
			return err
		}
		fmt.Fprintf(streams.Stdout, "run %s\n", summary.RunID)
		fmt.Fprintf(streams.Stdout, "wrote %d artifacts (%s) and %s\n",
			len(summary.Artifacts), summary.Transform, summary.Provenance)
		return nil
	}
	return command
}
