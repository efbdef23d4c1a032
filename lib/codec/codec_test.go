// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type sampleDocument struct {
	Transform string            `cbor:"transform"`
	Seed      int64             `cbor:"seed"`
	Params    map[string]string `cbor:"params,omitempty"`
}

func TestMarshalDeterministic(t *testing.T) {
	document := sampleDocument{
		Transform: "replace",
		Seed:      7,
		Params:    map[string]string{"old": "a", "new": "b"},
	}

	first, err := Marshal(document)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(document)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestMapKeyOrderIndependent(t *testing.T) {
	// Go map iteration order is randomized; the encoded bytes must not be.
	left := map[string]any{"transform": "upper", "seed": int64(0), "zeta": "z", "alpha": "a"}
	right := map[string]any{"alpha": "a", "zeta": "z", "seed": int64(0), "transform": "upper"}

	leftData, err := Marshal(left)
	if err != nil {
		t.Fatal(err)
	}
	rightData, err := Marshal(right)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(leftData, rightData) {
		t.Errorf("map encodings differ: %x vs %x", leftData, rightData)
	}
}

func TestStructMatchesEquivalentMap(t *testing.T) {
	structData, err := Marshal(sampleDocument{Transform: "upper", Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	mapData, err := Marshal(map[string]any{"seed": int64(3), "transform": "upper"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(structData, mapData) {
		t.Errorf("struct encoding %x differs from map encoding %x", structData, mapData)
	}
}

func TestSmallestIntegerEncoding(t *testing.T) {
	data, err := Marshal(int64(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 1 || data[0] != 0x00 {
		t.Errorf("Marshal(int64(0)) = %x, want 00", data)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"transform": "upper"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"transform"`) || !strings.Contains(notation, `"upper"`) {
		t.Errorf("notation %q missing expected text", notation)
	}
}
