// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package cvec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrNilVector is returned when a mutating operation is invoked on
	// a nil Raw.
	ErrNilVector = errors.New("cvec: nil vector")
	// ErrElementSize is returned when an appended element does not
	// match the vector's element width.
	ErrElementSize = errors.New("cvec: element size mismatch")
	// ErrZeroElementSize is returned when constructing a Raw with an
	// element width of zero bytes.
	ErrZeroElementSize = errors.New("cvec: element size must be non-zero")
	// ErrAllocFailed is returned when the configured allocator fails
	// to produce a block.
	ErrAllocFailed = errors.New("cvec: allocation failed")
)

// RawDestructor is the type-erased per-element finalizer.  It receives
// the element's byte window, valid only for the duration of the call.
type RawDestructor func(elem []byte)

// Raw is a growable vector of fixed-width byte records.  It is the
// type-erased counterpart of Vector for callers whose element width is
// only known at run time, such as snapshot loading or packing records
// read from a file.
//
// Like Vector, Raw is single-threaded; callers must synchronize
// externally.
type Raw struct {
	buf      []byte // capacity*elemSize bytes, spare region zeroed
	size     uint64
	capacity uint64
	elemSize uint64
	dtor     RawDestructor
	alloc    Allocator

	// compression applied when the vector is serialized
	compression CompressionType
}

// NewRaw returns a Raw with a capacity of one slot of elemSize bytes,
// no destructor and the default heap allocator.
func NewRaw(elemSize uint64) (*Raw, error) {
	return NewRawWithConfig(RawConfig{ElemSize: elemSize})
}

// NewRawWithConfig returns a Raw sized and configured by c.  The
// backing block is zero-initialized.
func NewRawWithConfig(c RawConfig) (*Raw, error) {
	if c.ElemSize == 0 {
		return nil, ErrZeroElementSize
	}
	capacity := c.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	alloc := c.Allocator
	if alloc == nil {
		alloc = HeapAllocator
	}
	buf := alloc.Alloc(capacity * c.ElemSize)
	if buf == nil && capacity > 0 {
		return nil, ErrAllocFailed
	}
	return &Raw{
		buf:         buf,
		capacity:    capacity,
		elemSize:    c.ElemSize,
		dtor:        c.Destructor,
		alloc:       alloc,
		compression: c.Compression,
	}, nil
}

// Len returns the number of live elements.  A nil vector reports 0.
func (v *Raw) Len() uint64 {
	if v == nil {
		return 0
	}
	return v.size
}

// Cap returns the number of allocated slots.  A nil vector reports 0.
func (v *Raw) Cap() uint64 {
	if v == nil {
		return 0
	}
	return v.capacity
}

// ElementSize returns the byte width of one element.  A nil vector
// reports 0.
func (v *Raw) ElementSize() uint64 {
	if v == nil {
		return 0
	}
	return v.elemSize
}

// Empty reports whether the vector holds no live elements.
func (v *Raw) Empty() bool {
	return v.Len() == 0
}

// PushBack appends a copy of elem, doubling capacity when the spare
// slots are exhausted.  elem must be exactly ElementSize bytes long;
// anything else is rejected rather than silently corrupting the
// layout.  Allocator failure is surfaced as an error and leaves the
// vector unchanged.
func (v *Raw) PushBack(elem []byte) error {
	if v == nil {
		return ErrNilVector
	}
	if uint64(len(elem)) != v.elemSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrElementSize, len(elem), v.elemSize)
	}
	if v.size == v.capacity {
		if err := v.grow(); err != nil {
			return err
		}
	}
	copy(v.buf[v.size*v.elemSize:], elem)
	v.size++
	return nil
}

func (v *Raw) grow() error {
	newCap := v.capacity * 2
	if newCap == 0 {
		newCap = 1
	}
	next := v.alloc.Realloc(v.buf, newCap*v.elemSize)
	if next == nil {
		return ErrAllocFailed
	}
	// zero the region beyond the old capacity
	zeroRange(next[v.capacity*v.elemSize:])
	v.buf = next
	v.capacity = newCap
	return nil
}

// At returns the byte window of the element at ix and whether ix is in
// range.  The window shares the backing buffer and is invalidated by
// the next mutation.
func (v *Raw) At(ix uint64) ([]byte, bool) {
	if v == nil || ix >= v.size {
		return nil, false
	}
	return v.buf[ix*v.elemSize : (ix+1)*v.elemSize], true
}

// Erase removes the element at ix, shifting the elements above it down
// one slot to preserve their relative order.  An out of range ix is a
// silent no-op.  Capacity never shrinks.
func (v *Raw) Erase(ix uint64) {
	if v == nil || ix >= v.size {
		return
	}
	es := v.elemSize
	if v.dtor != nil {
		v.dtor(v.buf[ix*es : (ix+1)*es])
	}
	copy(v.buf[ix*es:], v.buf[(ix+1)*es:v.size*es])
	zeroRange(v.buf[(v.size-1)*es : v.size*es])
	v.size--
}

// EraseSet removes every element whose index is set in rm, in a single
// compaction pass that preserves the relative order of the survivors.
// Indexes in rm beyond the live range are ignored.
func (v *Raw) EraseSet(rm *bitset.BitSet) {
	if v == nil || rm == nil {
		return
	}
	es := v.elemSize
	w := uint64(0)
	for i := uint64(0); i < v.size; i++ {
		if rm.Test(uint(i)) {
			if v.dtor != nil {
				v.dtor(v.buf[i*es : (i+1)*es])
			}
			continue
		}
		if w != i {
			copy(v.buf[w*es:], v.buf[i*es:(i+1)*es])
		}
		w++
	}
	zeroRange(v.buf[w*es : v.size*es])
	v.size = w
}

// Clear removes every live element, running the destructor on each in
// index order.  Capacity is retained.
func (v *Raw) Clear() {
	if v == nil {
		return
	}
	es := v.elemSize
	for i := uint64(0); i < v.size; i++ {
		if v.dtor != nil {
			v.dtor(v.buf[i*es : (i+1)*es])
		}
	}
	zeroRange(v.buf[:v.size*es])
	v.size = 0
}

// Free runs the destructor on every live element in index order and
// releases the backing block to the allocator.  A nil vector is a
// no-op.  After Free the vector is an empty capacity-0 vector.
func (v *Raw) Free() {
	if v == nil {
		return
	}
	if v.dtor != nil {
		es := v.elemSize
		for i := uint64(0); i < v.size; i++ {
			v.dtor(v.buf[i*es : (i+1)*es])
		}
	}
	if v.buf != nil {
		v.alloc.Free(v.buf)
	}
	v.buf = nil
	v.size = 0
	v.capacity = 0
}

// CheckConsistency validates the vector's internal invariants,
// including that the spare region past the live elements is zeroed.
func (v *Raw) CheckConsistency() error {
	if v == nil {
		return nil
	}
	if v.size > v.capacity {
		return fmt.Errorf("size %d exceeds capacity %d", v.size, v.capacity)
	}
	if uint64(len(v.buf)) != v.capacity*v.elemSize {
		return fmt.Errorf("backing block is %d bytes, want %d",
			len(v.buf), v.capacity*v.elemSize)
	}
	spare := v.buf[v.size*v.elemSize:]
	if ix := bytes.IndexFunc(spare, func(r rune) bool { return r != 0 }); ix >= 0 {
		return fmt.Errorf("spare region dirty at byte %d", ix)
	}
	return nil
}

// DebugDump prints a textual representation of the vector to stdout.
func (v *Raw) DebugDump() {
	fmt.Printf("\n  slot  bytes\n")
	for i := uint64(0); i < v.Len(); i++ {
		fmt.Printf("%6d  %x\n", i, v.buf[i*v.elemSize:(i+1)*v.elemSize])
	}
	fmt.Printf("%d/%d slots used, %d byte elements\n",
		v.Len(), v.Cap(), v.ElementSize())
}

func zeroRange(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
