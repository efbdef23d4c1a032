// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"encoding/json"
	"fmt"
	"os"
)

// Marshal renders record as indented JSON with a trailing newline. The
// field order is fixed by the struct definitions, so records with equal
// content serialize to equal bytes.
func Marshal(record *Record) ([]byte, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding provenance: %w", err)
	}
	return append(data, '\n'), nil
}

// Parse decodes and validates a serialized record.
func Parse(data []byte) (*Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing provenance: %w", err)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provenance: %w", err)
	}
	return &record, nil
}

// ReadFile reads and validates the record at path.
func ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	record, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return record, nil
}
