// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package cvec

// Allocator abstracts the low-level block primitives backing a Raw
// vector so a host environment can substitute its own memory
// management.  Implementations report failure by returning nil; Raw
// surfaces that as ErrAllocFailed instead of continuing with a corrupt
// block.
type Allocator interface {
	// Alloc returns a zeroed block of n bytes, or nil on failure.
	Alloc(n uint64) []byte
	// Realloc returns a block of n bytes whose prefix holds the
	// contents of old up to min(len(old), n), or nil on failure.
	// Bytes past the copied prefix need not be zeroed.
	Realloc(old []byte, n uint64) []byte
	// Free releases a block obtained from Alloc or Realloc.
	Free(block []byte)
}

// HeapAllocator is the default Allocator, backed by the Go heap.  Free
// is a no-op; reclamation is left to the garbage collector.
var HeapAllocator Allocator = heapAllocator{}

type heapAllocator struct{}

func (heapAllocator) Alloc(n uint64) []byte { return make([]byte, n) }

func (heapAllocator) Realloc(old []byte, n uint64) []byte {
	if uint64(cap(old)) >= n {
		return old[:n]
	}
	next := make([]byte, n)
	copy(next, old)
	return next
}

func (heapAllocator) Free(block []byte) {}
