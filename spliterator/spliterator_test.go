package spliterator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// drain collects the remaining elements of a spliterator.
func drain[T any](s Spliterator[T]) []T {
	out := make([]T, 0)
	ForEachRemaining(s, func(x T) { out = append(out, x) })
	return out
}

func TestOfSlice(t *testing.T) {

	s := OfSlice([]int{1, 2, 3, 4, 5, 6})

	// Case 1 : Sized and ordered with an exact size.
	assert.Equal(t, uint64(6), s.EstimateSize())
	size, ok := ExactSizeIfKnown(s)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(6), size)

	// Case 2 : Advancing consumes one element at a time in encounter order.
	var x int
	assert.Equal(t, true, s.TryAdvance(func(v int) { x = v }))
	assert.Equal(t, 1, x)
	assert.Equal(t, uint64(5), s.EstimateSize())

	// Case 3 : A split covers a prefix of the remainder, suffix stays with the receiver.
	prefix, ok := s.TrySplit()
	assert.Equal(t, true, ok)
	assert.Equal(t, []int{2, 3}, drain(prefix))
	assert.Equal(t, []int{4, 5, 6}, drain(s))

	// Case 4 : Exhausted spliterators neither advance nor split.
	assert.Equal(t, false, s.TryAdvance(func(v int) {}))
	_, ok = s.TrySplit()
	assert.Equal(t, false, ok)
}

func TestRange(t *testing.T) {

	// Case 1 : A unit step range produces consecutive integers.
	assert.Equal(t, []int{0, 1, 2, 3, 4}, drain(Range(0, 5)))

	// Case 2 : A stepped range stops before the bound.
	assert.Equal(t, []int{1, 3, 5}, drain(RangeStep(1, 7, 2)))
	assert.Equal(t, []int{1, 3, 5, 7}, drain(RangeStep(1, 8, 2)))

	// Case 3 : An inverted range is empty.
	assert.Equal(t, []int{}, drain(Range(5, 0)))

	// Case 4 : Splits partition the range exactly and preserve encounter order.
	s := Range(0, 10)
	prefix, ok := s.TrySplit()
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(5), prefix.EstimateSize())
	assert.Equal(t, uint64(5), s.EstimateSize())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, drain(prefix))
	assert.Equal(t, []int{5, 6, 7, 8, 9}, drain(s))

	// Case 5 : Range characteristics.
	chars := Range(0, 10).Characteristics()
	assert.Equal(t, uint(0), chars&Infinite)
	assert.NotEqual(t, uint(0), chars&Sized)
	assert.NotEqual(t, uint(0), chars&Sorted)
	assert.NotEqual(t, uint(0), chars&Uniform)
}

func TestIterate(t *testing.T) {

	s := Iterate(1, func(x int) int { return x * 2 })

	// Case 1 : Infinite, ordered, does not split.
	assert.Equal(t, MaxSize, s.EstimateSize())
	_, ok := s.TrySplit()
	assert.Equal(t, false, ok)

	// Case 2 : Produces repeated applications of the function.
	out := make([]int, 0)
	for i := 0; i < 5; i++ {
		s.TryAdvance(func(x int) { out = append(out, x) })
	}
	assert.Equal(t, []int{1, 2, 4, 8, 16}, out)
}

func TestGenerate(t *testing.T) {

	n := 0
	s := Generate(func() int { n++; return n })

	assert.Equal(t, MaxSize, s.EstimateSize())
	out := make([]int, 0)
	for i := 0; i < 3; i++ {
		s.TryAdvance(func(x int) { out = append(out, x) })
	}
	assert.Equal(t, []int{1, 2, 3}, out)
}

func TestEmpty(t *testing.T) {

	s := Empty[string]()
	assert.Equal(t, uint64(0), s.EstimateSize())
	assert.Equal(t, false, s.TryAdvance(func(x string) {}))
	_, ok := s.TrySplit()
	assert.Equal(t, false, ok)
}

func TestFromIterator(t *testing.T) {

	data := []int{1, 2, 3, 4, 5, 6, 7, 8}
	newIterator := func() Iterator[int] {
		i := 0
		return NewIterator(
			func() int { x := data[i]; i++; return x },
			func() bool { return i < len(data) })
	}

	// Case 1 : Unknown size reports the maximum estimate.
	s := FromIterator(newIterator(), -1, 0)
	assert.Equal(t, MaxSize, s.EstimateSize())
	assert.Equal(t, data, drain(s))

	// Case 2 : A supplied size makes the spliterator sized.
	s = FromIterator(newIterator(), int64(len(data)), 0)
	size, ok := ExactSizeIfKnown(s)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(8), size)

	// Case 3 : Splitting reads geometric batches off the iterator, order preserved.
	s = FromIterator(newIterator(), int64(len(data)), 0)
	out := make([]int, 0)
	first, ok := s.TrySplit()
	assert.Equal(t, true, ok)
	out = append(out, drain(first)...)
	second, ok := s.TrySplit()
	assert.Equal(t, true, ok)
	out = append(out, drain(second)...)
	out = append(out, drain(s)...)
	assert.Equal(t, data, out)
}

func TestToIterator(t *testing.T) {

	it := ToIterator(OfSlice([]string{"a", "b", "c"}))

	// Case 1 : Look ahead does not consume.
	assert.Equal(t, true, it.HasNext())
	assert.Equal(t, true, it.HasNext())
	assert.Equal(t, "a", it.Next())

	// Case 2 : Full traversal.
	assert.Equal(t, "b", it.Next())
	assert.Equal(t, "c", it.Next())
	assert.Equal(t, false, it.HasNext())

	// Case 3 : Next past the end panics.
	assert.Panics(t, func() { it.Next() })
}
