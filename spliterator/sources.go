package spliterator

import (
	"golang.org/x/exp/constraints"
)

// sliceSpliterator traverses and splits a slice.
type sliceSpliterator[T any] struct {
	data  []T
	cur   int
	end   int
	chars uint
}

// OfSlice returns a sized, ordered spliterator over the given slice.
func OfSlice[T any](data []T) Spliterator[T] {
	return &sliceSpliterator[T]{data: data, cur: 0, end: len(data), chars: Sized | Ordered | Uniform}
}

// OfSliceWith returns a spliterator over the given slice advertising extra
// characteristics on top of the sized, ordered defaults.
func OfSliceWith[T any](data []T, extra uint) Spliterator[T] {
	return &sliceSpliterator[T]{data: data, cur: 0, end: len(data), chars: Sized | Ordered | Uniform | extra}
}

func (s *sliceSpliterator[T]) TryAdvance(action func(x T)) bool {
	if s.cur >= s.end {
		return false
	}
	x := s.data[s.cur]
	s.cur++
	action(x)
	return true
}

func (s *sliceSpliterator[T]) TrySplit() (Spliterator[T], bool) {
	lo, mid := s.cur, s.cur+(s.end-s.cur)/2
	if lo >= mid {
		return nil, false
	}
	s.cur = mid
	return &sliceSpliterator[T]{data: s.data, cur: lo, end: mid, chars: s.chars}, true
}

func (s *sliceSpliterator[T]) EstimateSize() uint64 {
	return uint64(s.end - s.cur)
}

func (s *sliceSpliterator[T]) Characteristics() uint {
	return s.chars
}

// rangeSpliterator traverses the arithmetic sequence from, from+step, ... bounded by to.
type rangeSpliterator[T constraints.Integer] struct {
	from, to, step T
}

// Range returns a sized, ordered, sorted, distinct spliterator over [from, to) with unit
// step.
func Range[T constraints.Integer](from, to T) Spliterator[T] {
	if to < from {
		to = from
	}
	return &rangeSpliterator[T]{from: from, to: to, step: 1}
}

// RangeStep returns a spliterator over [from, to) advancing by the given positive step.
func RangeStep[T constraints.Integer](from, to, step T) Spliterator[T] {
	if to < from {
		to = from
	}
	return &rangeSpliterator[T]{from: from, to: to, step: step}
}

// remaining counts the elements left in the range.
func (s *rangeSpliterator[T]) remaining() uint64 {
	if s.from >= s.to {
		return 0
	}
	return (uint64(s.to-s.from) + uint64(s.step) - 1) / uint64(s.step)
}

func (s *rangeSpliterator[T]) TryAdvance(action func(x T)) bool {
	if s.from >= s.to {
		return false
	}
	x := s.from
	s.from += s.step
	action(x)
	return true
}

func (s *rangeSpliterator[T]) TrySplit() (Spliterator[T], bool) {
	n := s.remaining()
	if n < 2 {
		return nil, false
	}
	mid := s.from + T(n/2)*s.step
	prefix := &rangeSpliterator[T]{from: s.from, to: mid, step: s.step}
	s.from = mid
	return prefix, true
}

func (s *rangeSpliterator[T]) EstimateSize() uint64 {
	return s.remaining()
}

func (s *rangeSpliterator[T]) Characteristics() uint {
	return Sized | Ordered | Sorted | Distinct | Uniform
}

// iterateSpliterator produces the infinite sequence seed, f(seed), f(f(seed)), ...
type iterateSpliterator[T any] struct {
	next T
	f    func(x T) T
}

// Iterate returns an infinite ordered spliterator over repeated applications of f to the
// seed. The spliterator does not split.
func Iterate[T any](seed T, f func(x T) T) Spliterator[T] {
	return &iterateSpliterator[T]{next: seed, f: f}
}

func (s *iterateSpliterator[T]) TryAdvance(action func(x T)) bool {
	x := s.next
	s.next = s.f(x)
	action(x)
	return true
}

func (s *iterateSpliterator[T]) TrySplit() (Spliterator[T], bool) {
	return nil, false
}

func (s *iterateSpliterator[T]) EstimateSize() uint64 {
	return MaxSize
}

func (s *iterateSpliterator[T]) Characteristics() uint {
	return Ordered | Infinite
}

// generateSpliterator produces an infinite unordered sequence from a supplier.
type generateSpliterator[T any] struct {
	supplier func() T
}

// Generate returns an infinite unordered spliterator whose elements come from the
// supplier. The spliterator does not split.
func Generate[T any](supplier func() T) Spliterator[T] {
	return &generateSpliterator[T]{supplier: supplier}
}

func (s *generateSpliterator[T]) TryAdvance(action func(x T)) bool {
	action(s.supplier())
	return true
}

func (s *generateSpliterator[T]) TrySplit() (Spliterator[T], bool) {
	return nil, false
}

func (s *generateSpliterator[T]) EstimateSize() uint64 {
	return MaxSize
}

func (s *generateSpliterator[T]) Characteristics() uint {
	return Infinite
}

// emptySpliterator has no elements.
type emptySpliterator[T any] struct{}

// Empty returns a spliterator with no elements.
func Empty[T any]() Spliterator[T] {
	return emptySpliterator[T]{}
}

func (emptySpliterator[T]) TryAdvance(action func(x T)) bool {
	return false
}

func (emptySpliterator[T]) TrySplit() (Spliterator[T], bool) {
	return nil, false
}

func (emptySpliterator[T]) EstimateSize() uint64 {
	return 0
}

func (emptySpliterator[T]) Characteristics() uint {
	return Sized | Ordered | Uniform
}
