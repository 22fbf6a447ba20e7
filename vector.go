// Copyright (c) 2025 George Theodorakis. All Rights Reserved

// package cvec implements growable vector primitives which support:
//  1. a statically typed representation (Vector) for compile-time
//     known element types
//  2. a type-erased representation (Raw) for element widths only
//     known at run time
//  3. amortized doubling growth and order-preserving erase
//  4. optional per-element destructors invoked on removal
package cvec

import (
	"fmt"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
)

// Destructor is a per-element finalizer.  It is invoked with a pointer
// to an element immediately before that element leaves the vector,
// whether by Erase, EraseSet, Clear or Free.  A nil Destructor means
// the element type needs no cleanup.
type Destructor[T any] func(*T)

// Vector is a growable contiguous buffer of elements of type T.
//
// All mutation happens through methods on *Vector, so growth never
// invalidates a caller-held reference to the vector itself.  Slices
// returned by Slice and pointers handed to destructors are only valid
// until the next mutating call.
//
// Vector is not safe for concurrent use; callers must synchronize
// externally.
type Vector[T any] struct {
	elems []T // len(elems) == capacity, slots >= size are zero valued
	size  uint64
	dtor  Destructor[T]
}

// New returns a vector with a capacity of one slot and no destructor.
func New[T any]() *Vector[T] {
	return NewWithConfig(Config[T]{})
}

// NewWithConfig returns a vector sized and configured by c.
func NewWithConfig[T any](c Config[T]) *Vector[T] {
	capacity := c.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	return &Vector[T]{
		elems: make([]T, capacity),
		dtor:  c.Destructor,
	}
}

// Len returns the number of live elements.  A nil vector reports 0.
func (v *Vector[T]) Len() uint64 {
	if v == nil {
		return 0
	}
	return v.size
}

// Cap returns the number of allocated slots.  A nil vector reports 0.
func (v *Vector[T]) Cap() uint64 {
	if v == nil {
		return 0
	}
	return uint64(len(v.elems))
}

// ElementSize returns the byte width of one element.
func (v *Vector[T]) ElementSize() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// Empty reports whether the vector holds no live elements.
func (v *Vector[T]) Empty() bool {
	return v.Len() == 0
}

// PushBack appends a copy of x, doubling capacity when the spare slots
// are exhausted.  Growth is O(1) amortized.
func (v *Vector[T]) PushBack(x T) {
	if v.size == uint64(len(v.elems)) {
		v.grow()
	}
	v.elems[v.size] = x
	v.size++
}

func (v *Vector[T]) grow() {
	newCap := uint64(len(v.elems)) * 2
	if newCap == 0 {
		newCap = 1
	}
	// fresh slots beyond the copied prefix are zero valued
	next := make([]T, newCap)
	copy(next, v.elems[:v.size])
	v.elems = next
}

// At returns the element at ix and whether ix is in range.
func (v *Vector[T]) At(ix uint64) (T, bool) {
	if v == nil || ix >= v.size {
		var zero T
		return zero, false
	}
	return v.elems[ix], true
}

// Set overwrites the element at ix and reports whether ix was in
// range.  The previous value is discarded without running the
// destructor; use Swap to take ownership of it instead.
func (v *Vector[T]) Set(ix uint64, x T) bool {
	if v == nil || ix >= v.size {
		return false
	}
	v.elems[ix] = x
	return true
}

// Swap stores x at ix and returns the previous value.  Ownership of
// the previous value transfers to the caller; no destructor runs.
func (v *Vector[T]) Swap(ix uint64, x T) (old T, ok bool) {
	if v == nil || ix >= v.size {
		return
	}
	v.elems[ix], old = x, v.elems[ix]
	return old, true
}

// Slice returns the live elements as a slice sharing the vector's
// backing buffer.  The slice is invalidated by the next mutation.
func (v *Vector[T]) Slice() []T {
	if v == nil {
		return nil
	}
	return v.elems[:v.size]
}

// Erase removes the element at ix, preserving the relative order of
// the elements above it.  An out of range ix is a silent no-op.
// Capacity never shrinks.
func (v *Vector[T]) Erase(ix uint64) {
	if v == nil || ix >= v.size {
		return
	}
	if v.dtor != nil {
		v.dtor(&v.elems[ix])
	}
	copy(v.elems[ix:], v.elems[ix+1:v.size])
	var zero T
	v.elems[v.size-1] = zero
	v.size--
}

// EraseSet removes every element whose index is set in rm, in a single
// compaction pass that preserves the relative order of the survivors.
// Indexes in rm beyond the live range are ignored.
func (v *Vector[T]) EraseSet(rm *bitset.BitSet) {
	if v == nil || rm == nil {
		return
	}
	var zero T
	w := uint64(0)
	for i := uint64(0); i < v.size; i++ {
		if rm.Test(uint(i)) {
			if v.dtor != nil {
				v.dtor(&v.elems[i])
			}
			continue
		}
		if w != i {
			v.elems[w] = v.elems[i]
		}
		w++
	}
	for i := w; i < v.size; i++ {
		v.elems[i] = zero
	}
	v.size = w
}

// Clear removes every live element, running the destructor on each in
// index order.  Capacity is retained.
func (v *Vector[T]) Clear() {
	if v == nil {
		return
	}
	var zero T
	for i := uint64(0); i < v.size; i++ {
		if v.dtor != nil {
			v.dtor(&v.elems[i])
		}
		v.elems[i] = zero
	}
	v.size = 0
}

// Free runs the destructor on every live element in index order and
// releases the backing buffer.  A nil vector is a no-op.  After Free
// the vector is an empty capacity-0 vector; pushing into it regrows
// from scratch.
func (v *Vector[T]) Free() {
	if v == nil {
		return
	}
	if v.dtor != nil {
		for i := uint64(0); i < v.size; i++ {
			v.dtor(&v.elems[i])
		}
	}
	v.elems = nil
	v.size = 0
}

// CheckConsistency validates the vector's internal invariants.
func (v *Vector[T]) CheckConsistency() error {
	if v == nil {
		return nil
	}
	if v.size > uint64(len(v.elems)) {
		return fmt.Errorf("size %d exceeds capacity %d", v.size, len(v.elems))
	}
	return nil
}

// DebugDump prints a textual representation of the vector to stdout.
func (v *Vector[T]) DebugDump() {
	fmt.Printf("\n  slot  value\n")
	for i := uint64(0); i < v.Len(); i++ {
		fmt.Printf("%6d  %v\n", i, v.elems[i])
	}
	fmt.Printf("%d/%d slots used, %d byte elements\n",
		v.Len(), v.Cap(), v.ElementSize())
}

// Index returns the position of the first element equal to x.
func Index[T comparable](v *Vector[T], x T) (uint64, bool) {
	if v == nil {
		return 0, false
	}
	for i := uint64(0); i < v.size; i++ {
		if v.elems[i] == x {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether some element of v equals x.
func Contains[T comparable](v *Vector[T], x T) bool {
	_, found := Index(v, x)
	return found
}
