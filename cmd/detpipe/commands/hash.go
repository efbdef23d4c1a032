// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/detpipe/cmd/detpipe/cli"
	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/fault"
)

type hashParams struct {
	cli.JSONOutput
	Artifact bool `flag:"artifact" desc:"hash in the artifact domain (compare against provenance artifact hashes)"`
}

type hashEntry struct {
	Path   string `json:"path"`
	Domain string `json:"domain"`
	Hash   string `json:"hash"`
	Size   int64  `json:"size"`
}

func hashCommand(streams cli.Streams) *cli.Command {
	var params hashParams
	command := &cli.Command{
		Name:    "hash",
		Summary: "Print content hashes of files",
		Description: `Print the detpipe content hash of each file, as recorded in provenance.

By default files are hashed in the input domain, matching the hashes
under deterministic.inputs. With --artifact they are hashed in the
artifact domain, matching deterministic.artifacts for uncompressed
artifact files.`,
		Usage: "detpipe hash [--artifact] [--json] FILE...",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("hash", &params) },
	}
	command.Run = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			return command.UsageError("at least one file is required")
		}
		domain := digest.DomainInput
		if params.Artifact {
			domain = digest.DomainArtifact
		}

		entries := make([]hashEntry, 0, len(args))
		for _, path := range args {
			hash, size, err := digest.HashFile(domain, path)
			if err != nil {
				kind := fault.InputUnreadable
				if errors.Is(err, fs.ErrNotExist) {
					kind = fault.InputNotFound
				}
				return fault.ForPath(kind, path, errors.Unwrap(err))
			}
			entries = append(entries, hashEntry{Path: path, Domain: domain.String(), Hash: hash.String(), Size: size})
		}

		if done, err := params.EmitJSON(streams.Stdout, entries); done {
			return err
		}
		for _, entry := range entries {
			fmt.Fprintf(streams.Stdout, "%s  %s\n", entry.Hash, entry.Path)
		}
		return nil
	}
	return command
}
