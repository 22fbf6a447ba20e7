// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package cvec

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/stretchr/testify/assert"
)

func TestGrowthDoubling(t *testing.T) {
	v := New[uint32]()
	assert.Equal(t, uint64(1), v.Cap())

	wantCaps := []uint64{1, 2, 4, 4, 8}
	for i, x := range []uint32{1, 2, 3, 4, 5} {
		v.PushBack(x)
		assert.Equal(t, uint64(i+1), v.Len())
		assert.Equal(t, wantCaps[i], v.Cap())
		assert.NoError(t, v.CheckConsistency())
	}
	assert.Equal(t, uint64(5), v.Len())
	assert.Equal(t, uint64(8), v.Cap())
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, v.Slice())
}

func TestEraseMiddle(t *testing.T) {
	v := New[int]()
	for _, x := range []int{10, 20, 30, 40, 50} {
		v.PushBack(x)
	}
	capBefore := v.Cap()
	v.Erase(2)
	assert.Equal(t, []int{10, 20, 40, 50}, v.Slice())
	assert.Equal(t, uint64(4), v.Len())
	assert.Equal(t, capBefore, v.Cap())
}

func TestEraseOutOfRange(t *testing.T) {
	v := New[int]()
	for _, x := range []int{1, 2, 3} {
		v.PushBack(x)
	}
	capBefore := v.Cap()
	v.Erase(10)
	v.Erase(3)
	assert.Equal(t, []int{1, 2, 3}, v.Slice())
	assert.Equal(t, uint64(3), v.Len())
	assert.Equal(t, capBefore, v.Cap())
}

func TestDestructorOnFree(t *testing.T) {
	var released []string
	v := NewWithConfig(Config[string]{
		Destructor: func(s *string) { released = append(released, *s) },
	})
	v.PushBack("a")
	v.PushBack("b")
	v.PushBack("c")
	v.Free()
	assert.Equal(t, []string{"a", "b", "c"}, released)
	assert.Equal(t, uint64(0), v.Len())
	assert.Equal(t, uint64(0), v.Cap())
}

func TestDestructorOnErase(t *testing.T) {
	var released []int
	v := NewWithConfig(Config[int]{
		Destructor: func(x *int) { released = append(released, *x) },
	})
	for _, x := range []int{7, 8, 9} {
		v.PushBack(x)
	}
	v.Erase(1)
	assert.Equal(t, []int{8}, released)
	v.Erase(5) // out of range, no destructor
	assert.Equal(t, []int{8}, released)
}

func TestFreedVectorRegrows(t *testing.T) {
	v := New[int]()
	v.PushBack(1)
	v.Free()
	assert.Equal(t, uint64(0), v.Cap())

	// growth law from capacity 0: 0 -> 1 -> 2 -> 4
	v.PushBack(10)
	assert.Equal(t, uint64(1), v.Cap())
	v.PushBack(11)
	assert.Equal(t, uint64(2), v.Cap())
	v.PushBack(12)
	assert.Equal(t, uint64(4), v.Cap())
	assert.Equal(t, []int{10, 11, 12}, v.Slice())
}

func TestNilVector(t *testing.T) {
	var v *Vector[int]
	assert.Equal(t, uint64(0), v.Len())
	assert.Equal(t, uint64(0), v.Cap())
	assert.True(t, v.Empty())
	assert.NoError(t, v.CheckConsistency())

	_, ok := v.At(0)
	assert.False(t, ok)
	assert.False(t, v.Set(0, 1))
	_, ok = v.Swap(0, 1)
	assert.False(t, ok)
	assert.Nil(t, v.Slice())

	// all silent no-ops
	v.Erase(0)
	v.EraseSet(bitset.New(4))
	v.Clear()
	v.Free()
}

func TestClearRetainsCapacity(t *testing.T) {
	released := 0
	v := NewWithConfig(Config[int]{
		Capacity:   8,
		Destructor: func(*int) { released++ },
	})
	for i := 0; i < 5; i++ {
		v.PushBack(i)
	}
	v.Clear()
	assert.Equal(t, 5, released)
	assert.Equal(t, uint64(0), v.Len())
	assert.Equal(t, uint64(8), v.Cap())
	assert.NoError(t, v.CheckConsistency())
}

func TestEraseSet(t *testing.T) {
	var released []int
	v := NewWithConfig(Config[int]{
		Destructor: func(x *int) { released = append(released, *x) },
	})
	for i := 0; i < 10; i++ {
		v.PushBack(i)
	}
	rm := bitset.New(16)
	rm.Set(1)
	rm.Set(3)
	rm.Set(5)
	rm.Set(12) // beyond the live range, ignored
	v.EraseSet(rm)
	assert.Equal(t, []int{0, 2, 4, 6, 7, 8, 9}, v.Slice())
	assert.Equal(t, []int{1, 3, 5}, released)
	assert.NoError(t, v.CheckConsistency())
}

func TestAtSetSwap(t *testing.T) {
	v := New[int]()
	v.PushBack(1)
	v.PushBack(2)

	x, ok := v.At(1)
	assert.True(t, ok)
	assert.Equal(t, 2, x)
	_, ok = v.At(2)
	assert.False(t, ok)

	assert.True(t, v.Set(0, 42))
	assert.False(t, v.Set(2, 42))

	old, ok := v.Swap(0, 7)
	assert.True(t, ok)
	assert.Equal(t, 42, old)
	assert.Equal(t, []int{7, 2}, v.Slice())
}

func TestIndexContains(t *testing.T) {
	v := New[string]()
	for _, s := range []string{"red", "yellow", "orange", "blue"} {
		v.PushBack(s)
	}
	ix, found := Index(v, "orange")
	assert.True(t, found)
	assert.Equal(t, uint64(2), ix)
	assert.True(t, Contains(v, "red"))
	assert.False(t, Contains(v, "green"))

	var nilVec *Vector[string]
	assert.False(t, Contains(nilVec, "red"))
}

func TestDetermineCapacity(t *testing.T) {
	assert.Equal(t, uint64(1), DetermineCapacity(0))
	assert.Equal(t, uint64(1), DetermineCapacity(1))
	assert.Equal(t, uint64(8), DetermineCapacity(5))
	assert.Equal(t, uint64(1)<<62, DetermineCapacity(uint64(1)<<62))
	// past the largest power of two, doubling must not wrap around
	assert.Equal(t, uint64(1)<<63+1, DetermineCapacity(uint64(1)<<63+1))
}

func TestElementSize(t *testing.T) {
	assert.Equal(t, uint64(4), New[uint32]().ElementSize())
	assert.Equal(t, uint64(8), New[uint64]().ElementSize())
}

// drive the vector with random appends and erases against a plain
// slice reference and check order preservation plus the size/capacity
// invariant at every step
func TestRandomOpsAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(77)) // intentionally fixed seed
	v := New[int]()
	ref := []int{}
	for op := 0; op < 5000; op++ {
		if rng.Intn(3) != 0 {
			x := rng.Int()
			v.PushBack(x)
			ref = append(ref, x)
		} else if len(ref) > 0 {
			ix := rng.Intn(len(ref) + 2) // sometimes out of range
			v.Erase(uint64(ix))
			if ix < len(ref) {
				ref = append(ref[:ix], ref[ix+1:]...)
			}
		}
		if !assert.NoError(t, v.CheckConsistency()) {
			return
		}
		if !assert.True(t, v.Cap() >= v.Len(), "capacity %d below size %d", v.Cap(), v.Len()) {
			return
		}
	}
	assert.Equal(t, ref, v.Slice())
}

func BenchmarkVectorPushBack(b *testing.B) {
	v := New[int]()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		v.PushBack(n)
	}
}

func BenchmarkBuiltinAppend(b *testing.B) {
	s := make([]int, 0, 1)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		s = append(s, n)
	}
}

var benchStrings []string

func init() {
	for i := 0; i < 512; i++ {
		benchStrings = append(benchStrings, fmt.Sprintf("entry-%d", i))
	}
}

func BenchmarkVectorContains(b *testing.B) {
	v := New[string]()
	for _, s := range benchStrings {
		v.PushBack(s)
	}
	numStrings := len(benchStrings)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		Contains(v, benchStrings[n%numStrings])
	}
}

func BenchmarkMapLookup(b *testing.B) {
	table := map[string]struct{}{}
	for _, s := range benchStrings {
		table[s] = struct{}{}
	}
	numStrings := len(benchStrings)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		_, _ = table[benchStrings[n%numStrings]]
	}
}

func BenchmarkBloomFilter(b *testing.B) {
	bf := bloom.NewWithEstimates(uint(len(benchStrings)), 0.0001)
	for _, s := range benchStrings {
		bf.AddString(s)
	}
	numStrings := len(benchStrings)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		bf.TestString(benchStrings[n%numStrings])
	}
}
