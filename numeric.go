package streams

import (
	"fmt"

	"github.com/phantom820/streams/v2/spliterator"
	"golang.org/x/exp/constraints"
)

// Number the numeric element types the arithmetic terminals operate on.
type Number interface {
	constraints.Integer | constraints.Float
}

// rangeChars are the characteristics of an integer range source, an increasing run of
// distinct integers of known extent.
const rangeChars = spliterator.Sized | spliterator.Ordered | spliterator.Sorted | spliterator.Distinct | spliterator.Uniform

// Range returns a sequential stream over the integers [from, to) in increasing order.
func Range[T constraints.Integer](from, to T) Stream[T] {
	return newRoot(func() spliterator.Spliterator[T] {
		return spliterator.Range(from, to)
	}, rangeChars)
}

// RangeStep returns a sequential stream over the integers from, from+step, ... bounded by
// to. The step must be positive.
func RangeStep[T constraints.Integer](from, to, step T) Stream[T] {
	if step < 1 {
		panic(errIllegalArgument(fmt.Sprint(step), "RangeStep"))
	}
	return newRoot(func() spliterator.Spliterator[T] {
		return spliterator.RangeStep(from, to, step)
	}, rangeChars)
}

// Sum returns the sum of the elements of the stream, zero on an empty stream.
func Sum[T Number](s Stream[T]) T {
	var zero T
	return s.Fold(zero, func(x, y T) T { return x + y })
}

// Min returns the smallest element of the stream, false when the stream is empty.
func Min[T constraints.Ordered](s Stream[T]) (T, bool) {
	return s.Reduce(func(x, y T) T {
		if y < x {
			return y
		}
		return x
	})
}

// Max returns the largest element of the stream, false when the stream is empty.
func Max[T constraints.Ordered](s Stream[T]) (T, bool) {
	return s.Reduce(func(x, y T) T {
		if y > x {
			return y
		}
		return x
	})
}
