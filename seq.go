package glyphrun

import (
	"iter"
	"slices"
)

// Ownership tells whether a Seq views engine memory or owns its elements.
type Ownership uint8

const (
	// Owned sequences were allocated for the caller and live independently
	// of the run.
	Owned Ownership = iota
	// Borrowed sequences view a buffer held by the engine. They are valid
	// only while the run is alive; use Clone to keep the data longer.
	Borrowed
)

// String returns "owned" or "borrowed".
func (o Ownership) String() string {
	if o == Borrowed {
		return "borrowed"
	}
	return "owned"
}

// Seq is a read-only, restartable sequence of per-glyph values.
//
// A Seq is either a borrowed view of an engine buffer or an owned slice
// computed for the caller. Both behave the same through the methods
// below; the backing slice is never exposed.
type Seq[T any] struct {
	data []T
	own  Ownership
}

func borrowedSeq[T any](data []T) Seq[T] { return Seq[T]{data: data, own: Borrowed} }

func ownedSeq[T any](data []T) Seq[T] { return Seq[T]{data: data, own: Owned} }

// SeqOf returns an owned sequence over a copy of values.
func SeqOf[T any](values ...T) Seq[T] {
	return ownedSeq(slices.Clone(values))
}

// Len returns the number of elements.
func (s Seq[T]) Len() int { return len(s.data) }

// At returns element i. It panics if i is out of range.
func (s Seq[T]) At(i int) T { return s.data[i] }

// Ownership reports whether s is borrowed or owned.
func (s Seq[T]) Ownership() Ownership { return s.own }

// IsBorrowed reports whether s views engine memory.
func (s Seq[T]) IsBorrowed() bool { return s.own == Borrowed }

// Values iterates over the elements in order.
func (s Seq[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.data {
			if !yield(v) {
				return
			}
		}
	}
}

// All iterates over index/element pairs in order.
func (s Seq[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.data {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the elements. The result is
// non-nil even for an empty sequence.
func (s Seq[T]) Clone() []T {
	out := make([]T, len(s.data))
	copy(out, s.data)
	return out
}

// AppendTo appends the elements to dst and returns the extended slice.
func (s Seq[T]) AppendTo(dst []T) []T {
	return append(dst, s.data...)
}

// SeqEqual reports whether a and b hold the same elements in the same
// order. Ownership is not compared.
func SeqEqual[T comparable](a, b Seq[T]) bool {
	return slices.Equal(a.data, b.data)
}
