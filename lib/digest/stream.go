// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"fmt"
	"io"
	"os"
)

// HashReader streams r through the domain hasher and returns the digest
// and the number of bytes read. Memory use is constant regardless of
// input size.
func HashReader(domain Domain, r io.Reader) (Digest, int64, error) {
	hasher := New(domain)
	count, err := io.Copy(hasher, r)
	if err != nil {
		return Digest{}, count, err
	}
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, count, nil
}

// HashFile computes the domain digest of the file at path.
func HashFile(domain Domain, path string) (Digest, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	digest, count, err := HashReader(domain, file)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, count, nil
}
