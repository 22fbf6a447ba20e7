// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package cvec

import "math"

// DefaultCapacity is the number of slots allocated when no explicit
// capacity is configured, matching the one-slot default of the
// original C header.
const DefaultCapacity = 1

// Config controls the construction of a Vector.
type Config[T any] struct {
	// Capacity is the number of slots to reserve up front.  Zero
	// means DefaultCapacity.
	Capacity uint64
	// Destructor, if non-nil, runs on each element as it leaves the
	// vector.
	Destructor Destructor[T]
}

// RawConfig controls the construction of a Raw vector.
type RawConfig struct {
	// ElemSize is the fixed byte width of one element.  Required,
	// must be non-zero.
	ElemSize uint64
	// Capacity is the number of slots to reserve up front.  Zero
	// means DefaultCapacity.
	Capacity uint64
	// Destructor, if non-nil, runs on each element's byte window as
	// it leaves the vector.
	Destructor RawDestructor
	// Allocator overrides the block allocator.  Nil means
	// HeapAllocator.
	Allocator Allocator
	// Compression selects the payload compression used when the
	// vector is serialized.
	Compression CompressionType
}

// DetermineCapacity returns the capacity the doubling growth policy
// would settle on for expectedLen elements: the smallest power of two
// reachable from DefaultCapacity that holds them all.  Reserving it up
// front avoids the intermediate reallocations.
func DetermineCapacity(expectedLen uint64) uint64 {
	capacity := uint64(DefaultCapacity)
	for capacity < expectedLen {
		if capacity > math.MaxUint64/2 {
			// doubling would wrap; no power of two holds expectedLen
			return expectedLen
		}
		capacity *= 2
	}
	return capacity
}
