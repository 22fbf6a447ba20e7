// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package cvec

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"

	murmur "github.com/aviddiviner/go-murmur"
)

// snapshotVersion is a version number for the on disk representation
// format.  Any time incompatible changes are made, it is bumped.
const snapshotVersion = uint64(0x0001)

// checksumSeed is the fixed murmur64A seed used for payload checksums.
const checksumSeed = uint64(0x9747b28c)

// SnapshotHeader describes a serialized Raw vector.
type SnapshotHeader struct {
	// a version number which changes as the storage representation
	// changes
	Version uint64
	// the number of live elements in the stored vector
	Count uint64
	// the byte width of one element
	ElemSize uint64
	// the CompressionType applied to the stored payload
	Compression uint64
	// murmur64A checksum of the uncompressed element bytes
	Checksum uint64
	// the uncompressed payload length, Count*ElemSize
	RawLen uint64
	// the number of payload bytes that follow the header
	StoredLen uint64
}

// WriteTo serializes the vector to a stream: a little-endian header
// followed by the live element bytes, compressed per the vector's
// configured CompressionType.  Spare capacity is not stored.
func (v *Raw) WriteTo(stream io.Writer) (n int64, err error) {
	raw := v.buf[:v.size*v.elemSize]
	payload, effective, err := compressPayload(raw, v.compression)
	if err != nil {
		return 0, err
	}
	h := SnapshotHeader{
		Version:     snapshotVersion,
		Count:       v.size,
		ElemSize:    v.elemSize,
		Compression: uint64(effective),
		Checksum:    murmur.MurmurHash64A(raw, checksumSeed),
		RawLen:      uint64(len(raw)),
		StoredLen:   uint64(len(payload)),
	}
	if err = binary.Write(stream, binary.LittleEndian, h); err != nil {
		return
	}
	n += int64(unsafe.Sizeof(h))

	x, err := stream.Write(payload)
	n += int64(x)
	return
}

// ReadFrom replaces the vector's contents with a snapshot read from a
// stream.  Any configured destructor and allocator are retained; the
// element width, compression setting and contents come from the
// snapshot.  The version, payload length and checksum are all
// verified before the vector is touched.
func (v *Raw) ReadFrom(stream io.Reader) (n int64, err error) {
	var h SnapshotHeader
	if err = binary.Read(stream, binary.LittleEndian, &h); err != nil {
		return
	}
	n += int64(unsafe.Sizeof(h))
	if h.Version != snapshotVersion {
		return n, fmt.Errorf("incompatible file format: version is %d, expected %d",
			h.Version, snapshotVersion)
	}
	if h.ElemSize == 0 {
		return n, ErrZeroElementSize
	}
	// divide rather than multiply so oversized counts cannot wrap
	// around 64 bits and masquerade as a tiny payload
	if h.RawLen%h.ElemSize != 0 || h.Count != h.RawLen/h.ElemSize {
		return n, fmt.Errorf("corrupt header: %d elements of %d bytes cannot occupy %d bytes",
			h.Count, h.ElemSize, h.RawLen)
	}

	payload := make([]byte, h.StoredLen)
	x, err := io.ReadFull(stream, payload)
	n += int64(x)
	if err != nil {
		return
	}
	raw, err := decompressPayload(payload, CompressionType(h.Compression), h.RawLen)
	if err != nil {
		return
	}
	if sum := murmur.MurmurHash64A(raw, checksumSeed); sum != h.Checksum {
		return n, fmt.Errorf("checksum mismatch: stored %x, computed %x", h.Checksum, sum)
	}

	if v.alloc == nil {
		v.alloc = HeapAllocator
	}
	capacity := DetermineCapacity(h.Count)
	buf := v.alloc.Alloc(capacity * h.ElemSize)
	if buf == nil {
		return n, ErrAllocFailed
	}
	copy(buf, raw)
	if v.buf != nil {
		v.alloc.Free(v.buf)
	}
	v.buf = buf
	v.size = h.Count
	v.capacity = capacity
	v.elemSize = h.ElemSize
	v.compression = CompressionType(h.Compression)
	return
}

// ReadHeaderFromPath reads just the snapshot header from a file,
// without loading the payload.
func ReadHeaderFromPath(path string) (h SnapshotHeader, err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	err = binary.Read(f, binary.LittleEndian, &h)
	return
}

// ExplainIndent prints an indented summary of the header to stdout.
func (h SnapshotHeader) ExplainIndent(indent string) {
	fmt.Printf("%ssnapshot format version %d\n", indent, h.Version)
	fmt.Printf("%s%d elements of %d bytes each\n", indent, h.Count, h.ElemSize)
	fmt.Printf("%s%s compression\n", indent, CompressionType(h.Compression))
	fmt.Printf("%s%s payload stored (%s uncompressed)\n", indent,
		humanBytes(h.StoredLen), humanBytes(h.RawLen))
	fmt.Printf("%schecksum %016x\n", indent, h.Checksum)
}

// Explain prints a summary of the header to stdout.
func (h SnapshotHeader) Explain() {
	h.ExplainIndent("")
}

func humanBytes(bytes uint64) string {
	v := float64(bytes)
	suffix := "bytes"
	if v > 1024 {
		v /= 1024.
		suffix = "KB"
		if v > 1024. {
			suffix = "MB"
			v /= 1024.0
			if v > 1024. {
				suffix = "GB"
				v /= 1024.
			}
		}
	}
	if v < 10 {
		return fmt.Sprintf("%0.2f %s", v, suffix)
	} else if v < 100 {
		return fmt.Sprintf("%0.1f %s", v, suffix)
	}
	return fmt.Sprintf("%0.0f %s", v, suffix)
}
