// Copyright (c) 2025 George Theodorakis. All Rights Reserved

package cvec

// Sequence is the metadata surface shared by both vector
// representations.  It is implemented by Vector (statically typed)
// and Raw (type erased).
type Sequence interface {
	Len() uint64
	Cap() uint64
	ElementSize() uint64
	Empty() bool
}

var _ Sequence = (*Vector[int])(nil)
var _ Sequence = (*Raw)(nil)
