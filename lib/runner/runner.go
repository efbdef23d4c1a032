// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner drives one detpipe run through its fixed stage order:
// resolve inputs, load config, transform, build provenance, write.
// A failing stage stops the run; nothing is written unless every
// earlier stage succeeded.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/bureau-foundation/detpipe/lib/clock"
	"github.com/bureau-foundation/detpipe/lib/config"
	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/fault"
	"github.com/bureau-foundation/detpipe/lib/input"
	"github.com/bureau-foundation/detpipe/lib/output"
	"github.com/bureau-foundation/detpipe/lib/provenance"
	"github.com/bureau-foundation/detpipe/lib/transform"
)

// Runner executes pipeline runs. The zero value is not usable; use
// [New].
type Runner struct {
	logger      *slog.Logger
	clock       clock.Clock
	environment func() provenance.Environment
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the clock used for the audit timestamp.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithEnvironment replaces the function that captures the audit environment.
func WithEnvironment(environment func() provenance.Environment) Option {
	return func(r *Runner) { r.environment = environment }
}

// New returns a Runner that logs to logger. A nil logger discards.
func New(logger *slog.Logger, options ...Option) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runner := &Runner{
		logger:      logger,
		clock:       clock.Real(),
		environment: provenance.CurrentEnvironment,
	}
	for _, option := range options {
		option(runner)
	}
	return runner
}

// Request describes one run.
type Request struct {
	Inputs     []string
	ConfigPath string
	Version    string
	OutputRoot string

	// Workers bounds how many inputs are transformed concurrently.
	// Zero or negative means GOMAXPROCS.
	Workers int

	Compression output.Compression
	Overwrite   bool
}

// Result is a completed run.
type Result struct {
	Record  *provenance.Record
	Written *output.Written
}

// Run executes request. Errors from pipeline stages are [fault.Error]
// values; a cancelled context returns ctx.Err() and writes nothing.
func (r *Runner) Run(ctx context.Context, request Request) (*Result, error) {
	if request.OutputRoot == "" {
		return nil, fault.New(fault.InvalidRequest, "output root is required")
	}
	if request.ConfigPath == "" {
		return nil, fault.New(fault.InvalidRequest, "config path is required")
	}
	if strings.TrimSpace(request.Version) == "" {
		return nil, fault.New(fault.InvalidRequest, "tool version is required")
	}

	files, err := input.Resolve(request.Inputs)
	if err != nil {
		return nil, err
	}
	r.logger.Info("inputs resolved", "stage", "resolve", "inputs", len(files))

	cfg, err := config.Load(request.ConfigPath)
	if err != nil {
		return nil, err
	}
	r.logger.Info("config loaded",
		"stage", "config",
		"transform", cfg.Transform(),
		"config_hash", cfg.Hash().String(),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputs, err := r.transformAll(ctx, files, cfg.Settings(), request.Workers)
	if err != nil {
		return nil, err
	}
	r.logger.Info("inputs transformed", "stage", "transform", "inputs", len(outputs))

	inputPaths := make([]string, len(files))
	artifactEntries := make([]provenance.Artifact, len(files))
	artifacts := make([]output.Artifact, len(files))
	for i, file := range files {
		inputPaths[i] = file.Path
		artifactEntries[i] = provenance.Artifact{
			Input: file.Path,
			Hash:  digest.Artifact(outputs[i]),
			Size:  int64(len(outputs[i])),
		}
		artifacts[i] = output.Artifact{InputPath: file.Path, Data: outputs[i]}
	}

	record, err := provenance.Build(provenance.Request{
		Inputs:      provenance.InputsFrom(files),
		ConfigHash:  cfg.Hash(),
		Config:      cfg.Document(),
		Transform:   cfg.Transform(),
		Version:     request.Version,
		Artifacts:   artifactEntries,
		Storage:     output.Layout(inputPaths, request.Compression),
		Timestamp:   r.clock.Now(),
		Environment: r.environment(),
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("provenance built", "stage", "provenance", "run_id", record.RunID.String())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	written, err := output.Write(request.OutputRoot, artifacts, record, output.Options{
		Compression: request.Compression,
		Overwrite:   request.Overwrite,
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("output written",
		"stage", "write",
		"root", written.Root,
		"artifacts", len(written.Files),
		"stored_bytes", written.StoredBytes,
		"compression", request.Compression.String(),
	)

	return &Result{Record: record, Written: written}, nil
}

// transformAll applies settings to every file on a bounded worker pool.
// Results are stored by input index, so the returned slice is in input
// order regardless of completion order. After the first failure, no
// new work is started; the error for the lowest failing index is
// returned so the outcome does not depend on scheduling.
func (r *Runner) transformAll(ctx context.Context, files []input.File, settings transform.Settings, workers int) ([][]byte, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(files))

	outputs := make([][]byte, len(files))
	errs := make([]error, len(files))
	indexes := make(chan int)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var waitGroup sync.WaitGroup
	for range workers {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for index := range indexes {
				data, err := transform.Apply(files[index].Data, settings)
				if err != nil {
					errs[index] = fault.WithPath(err, files[index].Path)
					cancel()
					continue
				}
				outputs[index] = data
			}
		}()
	}

dispatch:
	for index := range files {
		select {
		case indexes <- index:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(indexes)
	waitGroup.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		// Cancelled by the caller, not by a failing transform.
		return nil, fmt.Errorf("transform stage: %w", context.Cause(ctx))
	}
	return outputs, nil
}
