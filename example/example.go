// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"

	cvec "github.com/gthe0/cvec"
)

func main() {
	// size the vector up front when the element count is known,
	// otherwise just use New()
	v := cvec.NewWithConfig(cvec.Config[string]{
		Capacity: cvec.DetermineCapacity(4),
		Destructor: func(s *string) {
			fmt.Printf("releasing %q\n", *s)
		},
	})
	for _, color := range []string{"red", "yellow", "orange", "blue"} {
		v.PushBack(color)
	}

	// erase preserves the order of the survivors
	v.Erase(1)
	fmt.Printf("%d/%d elements: %v\n", v.Len(), v.Cap(), v.Slice())

	// Dump the whole vector in textual form
	v.DebugDump()

	v.Free()

	// the type-erased representation serializes; pack the same data
	// as 8 byte records and report the snapshot size
	raw, err := cvec.NewRawWithConfig(cvec.RawConfig{
		ElemSize:    8,
		Compression: cvec.CompressionZstd,
	})
	if err != nil {
		panic(err)
	}
	var elem [8]byte
	for i := uint64(1); i <= 5; i++ {
		binary.LittleEndian.PutUint64(elem[:], i*100)
		if err := raw.PushBack(elem[:]); err != nil {
			panic(err)
		}
	}
	buf := bytes.NewBuffer([]byte{})
	if _, err := raw.WriteTo(buf); err != nil {
		panic(err)
	}
	fmt.Printf("vector serializes into %d bytes\n", buf.Len())
}
