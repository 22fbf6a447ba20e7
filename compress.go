// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package cvec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType selects the algorithm applied to the element payload
// of a snapshot.
type CompressionType uint8

const (
	// CompressionNone stores the payload verbatim.
	CompressionNone CompressionType = 0
	// CompressionLZ4 applies LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZstd applies zstd compression (better ratio).
	CompressionZstd CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// ParseCompression maps a user-supplied name to a CompressionType.
func ParseCompression(s string) (CompressionType, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return CompressionNone, fmt.Errorf("unknown compression type %q", s)
}

// compressPayload compresses data with the requested algorithm.  It
// returns the stored bytes and the compression actually applied: when
// the data is incompressible the payload is stored verbatim and
// CompressionNone is reported.
func compressPayload(data []byte, ct CompressionType) ([]byte, CompressionType, error) {
	if ct == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}
	var compressed []byte
	switch ct {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, ct, err
		}
		if n == 0 {
			// incompressible
			return data, CompressionNone, nil
		}
		compressed = dst[:n]
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, ct, err
		}
		compressed = enc.EncodeAll(data, nil)
		enc.Close()
	default:
		return nil, ct, fmt.Errorf("unknown compression type %d", ct)
	}
	if len(compressed) >= len(data) {
		return data, CompressionNone, nil
	}
	return compressed, ct, nil
}

// decompressPayload reverses compressPayload given the stored bytes
// and the expected uncompressed length.
func decompressPayload(data []byte, ct CompressionType, rawLen uint64) ([]byte, error) {
	switch ct {
	case CompressionNone:
		if uint64(len(data)) != rawLen {
			return nil, fmt.Errorf("payload is %d bytes, header says %d", len(data), rawLen)
		}
		return data, nil
	case CompressionLZ4:
		dst := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(data, dst)
		if err != nil {
			return nil, err
		}
		if uint64(n) != rawLen {
			return nil, fmt.Errorf("lz4 payload decoded to %d bytes, header says %d", n, rawLen)
		}
		return dst, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		dst, err := dec.DecodeAll(data, make([]byte, 0, rawLen))
		if err != nil {
			return nil, err
		}
		if uint64(len(dst)) != rawLen {
			return nil, fmt.Errorf("zstd payload decoded to %d bytes, header says %d", len(dst), rawLen)
		}
		return dst, nil
	}
	return nil, fmt.Errorf("unknown compression type %d", ct)
}
