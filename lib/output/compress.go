// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how artifact files are stored.
type Compression uint8

const (
	CompressionNone Compression = iota

	// CompressionZstd stores each artifact as one zstd frame at the
	// default level. Best ratio for text.
	CompressionZstd

	// CompressionLZ4 stores each artifact as an LZ4 frame. Faster to
	// write and read, larger than zstd.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Extension returns the file name suffix for stored artifacts.
func (c Compression) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCompression parses a compression name. The empty string means
// no compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, zstd, or lz4)", name)
	}
}

// The zstd encoder and decoder are safe for concurrent use and carry
// no per-call state, so one of each serves every artifact.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		panic("output: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic("output: zstd decoder initialization failed: " + err.Error())
	}
}

// encode returns data as it is stored on disk. Equal input always
// produces equal output.
func encode(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil

	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2+64)), nil

	case CompressionLZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if err := writer.Apply(lz4.ConcurrencyOption(1)); err != nil {
			return nil, fmt.Errorf("lz4 options: %w", err)
		}
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

// decode returns a reader over the original bytes of a stored
// artifact.
func decode(stored io.Reader, compression Compression) (io.Reader, error) {
	switch compression {
	case CompressionNone:
		return stored, nil

	case CompressionZstd:
		compressed, err := io.ReadAll(stored)
		if err != nil {
			return nil, err
		}
		data, err := zstdDecoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return bytes.NewReader(data), nil

	case CompressionLZ4:
		return lz4.NewReader(stored), nil

	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}
