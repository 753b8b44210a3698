// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a snapshot payload is compressed. The
// values are stored in the file header; changing them breaks existing
// snapshots.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

// String returns the name accepted by ParseCompression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (valid: none, lz4, zstd)", name)
	}
}

// errIncompressible means the compressed form was not smaller than the
// input. The caller stores the payload uncompressed instead.
var errIncompressible = errors.New("payload is incompressible")

// compress returns the payload under the requested compression, or the
// payload itself with CompressionNone when compressing would not shrink
// it.
func compress(payload []byte, requested Compression) ([]byte, Compression, error) {
	var (
		compressed []byte
		err        error
	)
	switch requested {
	case CompressionNone:
		return payload, CompressionNone, nil
	case CompressionLZ4:
		compressed, err = compressLZ4(payload)
	case CompressionZstd:
		compressed, err = compressZstd(payload)
	default:
		return nil, 0, fmt.Errorf("unsupported compression %s", requested)
	}
	if errors.Is(err, errIncompressible) {
		return payload, CompressionNone, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return compressed, requested, nil
}

// maxExpansion bounds the payload size a header may claim relative to
// its compressed body. LZ4 blocks top out near 255:1.
const maxExpansion = 1024

// decompress reverses compress. The result must be exactly size bytes.
func decompress(data []byte, compression Compression, size int) ([]byte, error) {
	if (compression == CompressionLZ4 || compression == CompressionZstd) && size > maxExpansion*len(data) {
		return nil, fmt.Errorf("%w: %d-byte %s body cannot hold the %d-byte payload its header claims",
			ErrCorrupt, len(data), compression, size)
	}
	switch compression {
	case CompressionNone:
		if len(data) != size {
			return nil, fmt.Errorf("%w: uncompressed payload is %d bytes, header says %d", ErrCorrupt, len(data), size)
		}
		return data, nil
	case CompressionLZ4:
		return decompressLZ4(data, size)
	case CompressionZstd:
		return decompressZstd(data, size)
	default:
		return nil, fmt.Errorf("unsupported compression %s", compression)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(data []byte, size int) ([]byte, error) {
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(data, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("%w: lz4 decompress got %d bytes, expected %d", ErrCorrupt, read, size)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use through
// EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(data []byte, size int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(data, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != size {
		return nil, fmt.Errorf("%w: zstd decompress got %d bytes, expected %d", ErrCorrupt, len(result), size)
	}
	return result, nil
}
