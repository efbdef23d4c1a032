// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/detpipe/lib/codec"
	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/fault"
	"github.com/bureau-foundation/detpipe/lib/transform"
)

// Format is the syntax of a config file.
type Format uint8

const (
	// FormatJSON is JSON with comments and trailing commas allowed.
	FormatJSON Format = iota
	// FormatYAML is YAML 1.2.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// FormatForPath selects the format from the file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the validated configuration in canonical shape. It is
// what gets encoded, hashed, and recorded in provenance.
type Document struct {
	Transform string            `json:"transform"`
	Seed      int64             `json:"seed"`
	Params    map[string]string `json:"params,omitempty"`
}

// Config is a validated, canonicalized pipeline configuration. The zero
// value is not usable; obtain one from [Load] or [Parse].
type Config struct {
	settings  transform.Settings
	canonical []byte
	hash      digest.Digest
}

// Load reads and validates the config file at path. Errors name path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.ForPath(fault.ConfigUnreadable, path, err)
	}
	config, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fault.WithPath(err, path)
	}
	return config, nil
}

// Parse validates config data in the given format.
func Parse(data []byte, format Format) (*Config, error) {
	fields, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	validated, err := validate(fields)
	if err != nil {
		return nil, err
	}
	spec, err := transform.Parse(validated.transform, validated.params)
	if err != nil {
		return nil, err
	}
	return New(transform.Settings{Spec: spec, Seed: validated.seed})
}

// New builds a Config directly from settings, for callers that select a
// transform programmatically.
func New(settings transform.Settings) (*Config, error) {
	if settings.Spec == nil {
		return nil, fault.ForKey(fault.ConfigMissingKey, "transform", errors.New("no transform selected"))
	}
	return newConfig(settings)
}

func newConfig(settings transform.Settings) (*Config, error) {
	canonical, err := codec.Marshal(documentFor(settings))
	if err != nil {
		return nil, fmt.Errorf("encoding canonical config: %w", err)
	}
	return &Config{
		settings:  settings,
		canonical: canonical,
		hash:      digest.Config(canonical),
	}, nil
}

func documentFor(settings transform.Settings) Document {
	return Document{
		Transform: settings.Spec.Kind().String(),
		Seed:      settings.Seed,
		Params:    settings.Spec.Params(),
	}
}

// Settings returns what the transform engine consumes.
func (c *Config) Settings() transform.Settings { return c.settings }

// Transform returns the transform identifier.
func (c *Config) Transform() string { return c.settings.Identifier() }

// Seed returns the configured seed.
func (c *Config) Seed() int64 { return c.settings.Seed }

// Hash returns the config-domain digest of the canonical bytes.
func (c *Config) Hash() digest.Digest { return c.hash }

// Canonical returns a copy of the canonical CBOR bytes.
func (c *Config) Canonical() []byte {
	return append([]byte(nil), c.canonical...)
}

// Document returns the validated configuration in canonical shape.
func (c *Config) Document() Document {
	return documentFor(c.settings)
}

// Diagnostic returns the canonical bytes in CBOR diagnostic notation.
func (c *Config) Diagnostic() (string, error) {
	return codec.Diagnose(c.canonical)
}
