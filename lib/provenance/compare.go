// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/bureau-foundation/detpipe/lib/codec"
)

// Difference is one deterministic field on which two records disagree.
type Difference struct {
	Field string `json:"field"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

func (d Difference) String() string {
	return fmt.Sprintf("%s: %s != %s", d.Field, d.Left, d.Right)
}

// Compare returns the deterministic differences between left and right,
// in a fixed field order. An empty result means the runs are
// reproductions of each other. Storage and audit sections are ignored.
func Compare(left, right *Record) []Difference {
	var differences []Difference
	add := func(field, leftValue, rightValue string) {
		if leftValue != rightValue {
			differences = append(differences, Difference{Field: field, Left: leftValue, Right: rightValue})
		}
	}

	l, r := left.Deterministic, right.Deterministic
	add("format", left.Format, right.Format)
	add("run_id", left.RunID.String(), right.RunID.String())
	add("version", l.Version, r.Version)
	add("transform", l.Transform, r.Transform)
	add("hash_algorithm", l.HashAlgorithm, r.HashAlgorithm)
	add("config_hash", l.ConfigHash.String(), r.ConfigHash.String())

	leftConfig, leftErr := codec.Marshal(l.Config)
	rightConfig, rightErr := codec.Marshal(r.Config)
	if leftErr != nil || rightErr != nil || !bytes.Equal(leftConfig, rightConfig) {
		add("config", fmt.Sprintf("%+v", l.Config), fmt.Sprintf("%+v", r.Config))
	}

	add("inputs.length", strconv.Itoa(len(l.Inputs)), strconv.Itoa(len(r.Inputs)))
	for i := range min(len(l.Inputs), len(r.Inputs)) {
		prefix := fmt.Sprintf("inputs[%d].", i)
		add(prefix+"path", l.Inputs[i].Path, r.Inputs[i].Path)
		add(prefix+"hash", l.Inputs[i].Hash.String(), r.Inputs[i].Hash.String())
		add(prefix+"size", strconv.FormatInt(l.Inputs[i].Size, 10), strconv.FormatInt(r.Inputs[i].Size, 10))
	}

	add("artifacts.length", strconv.Itoa(len(l.Artifacts)), strconv.Itoa(len(r.Artifacts)))
	for i := range min(len(l.Artifacts), len(r.Artifacts)) {
		prefix := fmt.Sprintf("artifacts[%d].", i)
		add(prefix+"input", l.Artifacts[i].Input, r.Artifacts[i].Input)
		add(prefix+"hash", l.Artifacts[i].Hash.String(), r.Artifacts[i].Hash.String())
		add(prefix+"size", strconv.FormatInt(l.Artifacts[i].Size, 10), strconv.FormatInt(r.Artifacts[i].Size, 10))
	}

	return differences
}
