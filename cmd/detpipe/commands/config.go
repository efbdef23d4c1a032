// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
	"github.com/bureau-foundation/detpipe/lib/config"
)

type configParams struct {
	cli.JSONOutput
}

type configSummary struct {
	Path       string          `json:"path"`
	Hash       string          `json:"hash"`
	Transform  string          `json:"transform"`
	Document   config.Document `json:"document"`
	Canonical  string          `json:"canonical_hex"`
	Diagnostic string          `json:"diagnostic"`
}

func configCommand(streams cli.Streams) *cli.Command {
	var params configParams
	command := &cli.Command{
		Name:    "config",
		Summary: "Show a config's canonical form and hash",
		Description: `Load and validate a pipeline config, then print its config hash,
transform identifier, and canonical CBOR form in diagnostic notation.

Two configs with the same hash produce the same artifacts for the same
inputs. Key order, comments, whitespace, and file format do not affect
the hash.`,
		Usage: "detpipe config FILE [--json]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("config", &params) },
	}
	command.Run = func(ctx context.Context, args []string) error {
		if len(args) != 1 {
			return command.UsageError("expected exactly one config file, got %d arguments", len(args))
		}
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		diagnostic, err := cfg.Diagnostic()
		if err != nil {
			return fmt.Errorf("rendering canonical config: %w", err)
		}

		summary := configSummary{
			Path:       args[0],
			Hash:       cfg.Hash().String(),
			Transform:  cfg.Transform(),
			Document:   cfg.Document(),
			Canonical:  hex.EncodeToString(cfg.Canonical()),
			Diagnostic: diagnostic,
		}
		if done, err := params.EmitJSON(streams.Stdout, summary); done {
			return err
		}
		fmt.Fprintf(streams.Stdout, "hash:      %s\n", summary.Hash)
		fmt.Fprintf(streams.Stdout, "transform: %s\n", summary.Transform)
		fmt.Fprintf(streams.Stdout, "canonical: %s\n", summary.Diagnostic)
		return nil
	}
	return command
}
