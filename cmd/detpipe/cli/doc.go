// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the detpipe binary.
//
// A [Command] has a name, help text, an optional [pflag.FlagSet]
// factory, and either nested subcommands or a Run function.
// [Command.Execute] parses flags, routes subcommands, and prints
// structured help. Unknown commands and flags get a "did you mean"
// suggestion based on Levenshtein distance.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams]. Output goes through [Streams] so tests can capture
// it.
package cli
