// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
)

// Algorithm names the hash construction recorded in provenance.
const Algorithm = "blake3-keyed-256"

// Size is the length of a Digest in bytes.
const Size = 32

// Digest is a 32-byte BLAKE3 keyed hash.
type Digest [Size]byte

// Domain selects the BLAKE3 key a digest is computed under.
type Domain uint8

const (
	// DomainInput hashes raw input file bytes.
	DomainInput Domain = iota
	// DomainConfig hashes canonical config bytes.
	DomainConfig
	// DomainArtifact hashes transformed output bytes (before any
	// storage compression).
	DomainArtifact
	// DomainRun hashes the canonical deterministic section of a
	// provenance record.
	DomainRun
)

// domainKey is a BLAKE3 key: the ASCII domain name, zero-padded to 32
// bytes. Changing a key invalidates every digest in that domain.
type domainKey [32]byte

var domainKeys = [...]domainKey{
	DomainInput: {
		'd', 'e', 't', 'p', 'i', 'p', 'e', '.', 'i', 'n', 'p', 'u', 't',
	},
	DomainConfig: {
		'd', 'e', 't', 'p', 'i', 'p', 'e', '.', 'c', 'o', 'n', 'f', 'i', 'g',
	},
	DomainArtifact: {
		'd', 'e', 't', 'p', 'i', 'p', 'e', '.', 'a', 'r', 't', 'i', 'f', 'a', 'c', 't',
	},
	DomainRun: {
		'd', 'e', 't', 'p', 'i', 'p', 'e', '.', 'r', 'u', 'n',
	},
}

// String returns the domain name.
func (d Domain) String() string {
	switch d {
	case DomainInput:
		return "input"
	case DomainConfig:
		return "config"
	case DomainArtifact:
		return "artifact"
	case DomainRun:
		return "run"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// Input hashes raw input file bytes.
func Input(data []byte) Digest { return Sum(DomainInput, data) }

// Config hashes canonical config bytes.
func Config(canonical []byte) Digest { return Sum(DomainConfig, canonical) }

// Artifact hashes transformed output bytes.
func Artifact(data []byte) Digest { return Sum(DomainArtifact, data) }

// Run hashes the canonical encoding of a record's deterministic section.
func Run(canonical []byte) Digest { return Sum(DomainRun, canonical) }

// Sum computes the keyed hash of data in the given domain.
func Sum(domain Domain, data []byte) Digest {
	hasher := New(domain)
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// New returns a streaming hasher for the given domain. Panics on an
// unknown domain (programming error).
func New(domain Domain) hash.Hash {
	if int(domain) >= len(domainKeys) {
		panic(fmt.Sprintf("digest: unknown domain %d", domain))
	}
	key := domainKeys[domain]
	// NewKeyed only fails for a key that is not 32 bytes.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

// String returns the 64-character lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d is the zero digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != Size {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), Size)
	}
	copy(digest[:], decoded)
	return digest, nil
}
