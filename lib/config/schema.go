// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/detpipe/lib/fault"
)

// field is one top-level schema entry.
type field struct {
	name     string
	required bool
}

// schema lists every accepted top-level key in reporting order.
var schema = []field{
	{name: "transform", required: true},
	{name: "seed", required: true},
	{name: "params", required: false},
}

// validated holds schema-checked values before transform parsing.
type validated struct {
	transform string
	seed      int64
	params    map[string]any
}

// decode parses data into a generic top-level object.
func decode(data []byte, format Format) (map[string]any, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, malformed("parsing YAML: %w", err)
		}
	default:
		standard := jsonc.ToJSON(data)
		decoder := json.NewDecoder(bytes.NewReader(standard))
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, malformed("config is empty")
			}
			return nil, malformed("parsing JSON: %w", err)
		}
		var trailing any
		if err := decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
			return nil, malformed("unexpected data after the top-level object")
		}
		// encoding/json keeps the last of repeated keys; yaml.v3
		// rejects them. Both formats reject them here.
		if err := rejectDuplicateKeys(json.NewDecoder(bytes.NewReader(standard))); err != nil {
			return nil, malformed("parsing JSON: %w", err)
		}
	}

	object, err := asObject(raw)
	if err != nil {
		return nil, malformed("top level: %w", err)
	}
	return object, nil
}

// rejectDuplicateKeys walks one JSON value token by token and fails on
// the first object that repeats a key, at any depth.
func rejectDuplicateKeys(decoder *json.Decoder) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	delim, ok := token.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		seen := make(map[string]bool)
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return err
			}
			key, _ := keyToken.(string)
			if seen[key] {
				return fmt.Errorf("duplicate key %q", key)
			}
			seen[key] = true
			if err := rejectDuplicateKeys(decoder); err != nil {
				return err
			}
		}
	case '[':
		for decoder.More() {
			if err := rejectDuplicateKeys(decoder); err != nil {
				return err
			}
		}
	}
	// Closing delimiter.
	_, err = decoder.Token()
	return err
}

// validate checks fields against the schema. Missing keys are reported
// first, then unknown keys, then value types.
func validate(fields map[string]any) (validated, error) {
	known := make(map[string]bool, len(schema))
	for _, entry := range schema {
		known[entry.name] = true
		if _, present := fields[entry.name]; entry.required && !present {
			return validated{}, fault.ForKey(fault.ConfigMissingKey, entry.name, errors.New("required key is absent"))
		}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !known[name] {
			return validated{}, fault.ForKey(fault.ConfigUnknownKey, name, errors.New("key is not part of the config schema"))
		}
	}

	var result validated

	transformID, ok := fields["transform"].(string)
	if !ok {
		return validated{}, invalidValue("transform", "must be a string, got %s", describe(fields["transform"]))
	}
	result.transform = transformID

	seed, err := asInteger(fields["seed"])
	if err != nil {
		return validated{}, invalidValue("seed", "%v", err)
	}
	result.seed = seed

	if raw, present := fields["params"]; present {
		params, err := asObject(raw)
		if err != nil {
			return validated{}, invalidValue("params", "%v", err)
		}
		result.params = params
	}

	return result, nil
}

// asObject accepts decoded JSON or YAML mappings with string keys.
func asObject(value any) (map[string]any, error) {
	switch object := value.(type) {
	case map[string]any:
		return object, nil
	case map[any]any:
		converted := make(map[string]any, len(object))
		for key, element := range object {
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", key)
			}
			converted[name] = element
		}
		return converted, nil
	default:
		return nil, fmt.Errorf("must be an object, got %s", describe(value))
	}
}

// asInteger accepts integral values that fit in int64. Floats are
// rejected even when integral ("1.0"), since the source spelled a
// different number than the canonical form would.
func asInteger(value any) (int64, error) {
	switch number := value.(type) {
	case json.Number:
		parsed, err := number.Int64()
		if err != nil {
			return 0, fmt.Errorf("must be an integer in int64 range, got %s", number)
		}
		return parsed, nil
	case int:
		return int64(number), nil
	case int64:
		return number, nil
	case uint64:
		if number > math.MaxInt64 {
			return 0, fmt.Errorf("must be an integer in int64 range, got %d", number)
		}
		return int64(number), nil
	default:
		return 0, fmt.Errorf("must be an integer, got %s", describe(value))
	}
}

// describe names the type of a decoded value in schema terms.
func describe(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, float32:
		return fmt.Sprintf("number %v", value)
	case int, int64, uint64:
		return fmt.Sprintf("integer %v", value)
	case []any:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func malformed(format string, args ...any) error {
	return fault.New(fault.ConfigMalformed, format, args...)
}

func invalidValue(key, format string, args ...any) error {
	return fault.ForKey(fault.ConfigInvalidValue, key, fmt.Errorf(format, args...))
}
