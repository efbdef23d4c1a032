// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package input resolves the input files of a detpipe run: it validates
// every path, reads the raw bytes, and computes each file's content
// digest. Resolution is all-or-nothing. Every path is checked before any
// file is read, and the first failure aborts the whole set.
package input

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/detpipe/lib/digest"
	"github.com/bureau-foundation/detpipe/lib/fault"
)

// File is one resolved input. Its fields are not modified after
// resolution.
type File struct {
	// Path is the cleaned path as given by the caller. It is recorded
	// in provenance verbatim, so relative paths keep records portable
	// across machines.
	Path string

	// Data is the raw file content.
	Data []byte

	// Hash is the input-domain digest of Data.
	Hash digest.Digest
}

// Size returns the length of the file content in bytes.
func (f File) Size() int64 { return int64(len(f.Data)) }

// Resolve validates, reads, and hashes paths, preserving their order.
//
// Duplicate policy: two paths naming the same file (after cleaning and
// making absolute) are rejected, and so are two different files that
// share a base name, because their artifacts would collide. Identical
// content under different names is allowed.
func Resolve(paths []string) ([]File, error) {
	if len(paths) == 0 {
		return nil, fault.New(fault.InvalidRequest, "no input files provided")
	}

	cleaned := make([]string, len(paths))
	seenAbsolute := make(map[string]string, len(paths))
	seenBase := make(map[string]string, len(paths))
	for i, path := range paths {
		if path == "" {
			return nil, fault.New(fault.InvalidRequest, "input path %d is empty", i)
		}
		clean := filepath.Clean(path)
		absolute, err := filepath.Abs(clean)
		if err != nil {
			return nil, fault.ForPath(fault.InputUnreadable, clean, err)
		}
		if previous, exists := seenAbsolute[absolute]; exists {
			return nil, fault.ForPath(fault.InputDuplicate, clean,
				fmt.Errorf("same file as %s", previous))
		}
		base := filepath.Base(clean)
		if previous, exists := seenBase[base]; exists {
			return nil, fault.ForPath(fault.InputDuplicate, clean,
				fmt.Errorf("base name %q already used by %s", base, previous))
		}
		seenAbsolute[absolute] = clean
		seenBase[base] = clean
		cleaned[i] = clean
	}

	for _, path := range cleaned {
		if err := checkRegular(path); err != nil {
			return nil, err
		}
	}

	files := make([]File, len(cleaned))
	for i, path := range cleaned {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, classifyReadError(path, err)
		}
		files[i] = File{
			Path: path,
			Data: data,
			Hash: digest.Input(data),
		}
	}
	return files, nil
}

// checkRegular fails unless path names an existing regular file.
// Symlinks are followed.
func checkRegular(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return classifyReadError(path, err)
	}
	if !info.Mode().IsRegular() {
		return fault.ForPath(fault.InputUnreadable, path,
			fmt.Errorf("not a regular file (mode %s)", info.Mode().Type()))
	}
	return nil
}

func classifyReadError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fault.ForPath(fault.InputNotFound, path, fs.ErrNotExist)
	}
	return fault.ForPath(fault.InputUnreadable, path, err)
}
