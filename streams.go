// package streams provides a lazy, composable and optionally parallel stream engine. A
// stream is a declarative pipeline of intermediate operations (filter, map, flat map,
// sorted, distinct, skip, limit) over a splittable source, executed only when one terminal
// operation (reduce, find, match, for each, collect) is invoked. Sequential evaluation
// fuses stateless operations into a single traversal of the source; parallel evaluation
// decomposes the source recursively onto a worker pool, honoring short circuit
// termination and preserving encounter order where required.
package streams

import (
	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/pool"
	"github.com/phantom820/streams/v2/spliterator"
)

// Stream a sequence of elements that can be operated on sequentially or in parallel. A
// stream supports a single downstream operation; chaining an intermediate operation links
// the stream and invoking a terminal operation consumes it, either way the stream cannot
// be operated on again.
type Stream[T any] interface {

	// Intermediate operations.
	Filter(f func(x T) bool) Stream[T]                                // Returns a stream consisting of the elements of this stream that satisfy the given predicate.
	Map(f func(x T) T) Stream[T]                                      // Returns a stream consisting of the results of applying the given transformation to the elements of the stream.
	FlatMap(f func(x T) Stream[T]) Stream[T]                          // Returns a stream consisting of the elements of the streams produced by applying the given expansion to each element.
	Peek(f func(x T)) Stream[T]                                       // Returns a stream consisting of the elements of the stream, additionally invoking the given function on each element as it flows past.
	Skip(n int) Stream[T]                                             // Returns a stream that discards the first n elements in encounter order.
	Limit(n int) Stream[T]                                            // Returns a stream truncated to at most n elements.
	Sorted(cmp func(a, b T) int) Stream[T]                            // Returns a stream consisting of the elements of the stream in the order induced by the comparison function.
	Distinct(equals func(a, b T) bool, hash func(x T) int) Stream[T]  // Returns a stream consisting of distinct elements. Elements are distinguished using equality and hash code.

	// Terminal operations.
	ForEach(f func(x T))                            // Performs the given action on each element of the stream.
	ForEachUntil(f func(x T), stop func() bool)     // Performs the given action on each element until the stop predicate reports true.
	Count() int                                     // Returns a count of elements in the stream.
	Reduce(f func(x, y T) T) (T, bool)              // Reduces the stream with the associative function. The second result is false when the stream has no elements.
	Fold(identity T, f func(x, y T) T) T            // Reduces the stream with the associative function starting from the identity.
	ToSlice() []T                                   // Returns a slice containing the elements from the stream.
	AnyMatch(f func(x T) bool) bool                 // Returns whether any element satisfies the predicate. False on an empty stream.
	AllMatch(f func(x T) bool) bool                 // Returns whether every element satisfies the predicate. True on an empty stream.
	NoneMatch(f func(x T) bool) bool                // Returns whether no element satisfies the predicate. True on an empty stream.
	FindFirst() (T, bool)                           // Returns the first element in encounter order, false when the stream is empty.
	FindAny() (T, bool)                             // Returns some element of the stream, false when the stream is empty.

	// Mode and state.
	Sequential() Stream[T]                       // Returns an equivalent stream that evaluates sequentially.
	Parallel() Stream[T]                         // Returns an equivalent stream that evaluates in parallel.
	ParallelOn(pl pool.Pool) Stream[T]           // Returns an equivalent stream that evaluates in parallel on the given pool.
	IsParallel() bool                            // Checks if the stream evaluates in parallel.
	Terminated() bool                            // Checks if a terminal operation has been invoked on the stream.
	Linked() bool                                // Checks if a new stream has been derived from the stream.
	Flags() flags.Word                           // Returns the combined stream flags at this stage.
	Spliterator() spliterator.Spliterator[T]     // Consumes the stream, returning a spliterator over its elements.
	Iterator() spliterator.Iterator[T]           // Consumes the stream, returning a sequential iterator over its elements.
}

// New returns a sequential stream over the spliterator produced by the supplier,
// advertising the given characteristics. The supplier is invoked lazily when a terminal
// operation runs, at most once.
func New[T any](supplier func() spliterator.Spliterator[T], chars uint) Stream[T] {
	return newRoot(supplier, chars)
}

// FromSlice returns a sequential stream which will use the given callback to obtain its
// elements when a terminal operation is invoked.
func FromSlice[T any](f func() []T) Stream[T] {
	return newRoot(func() spliterator.Spliterator[T] {
		return spliterator.OfSlice(f())
	}, spliterator.Sized|spliterator.Ordered|spliterator.Uniform)
}

// Of returns a sequential stream over the given elements.
func Of[T any](elements ...T) Stream[T] {
	return FromSlice(func() []T { return elements })
}

// Empty returns a sequential stream with no elements.
func Empty[T any]() Stream[T] {
	return newRoot(spliterator.Empty[T], spliterator.Sized|spliterator.Ordered|spliterator.Uniform)
}

// FromIterator returns a sequential stream over the iterator's elements. Pass a negative
// size when the element count is unknown; extra spliterator characteristics may be
// advertised through chars.
func FromIterator[T any](it spliterator.Iterator[T], size int64, chars uint) Stream[T] {
	return newRoot(func() spliterator.Spliterator[T] {
		return spliterator.FromIterator(it, size, chars)
	}, chars|spliterator.Ordered|sizedChar(size))
}

// sizedChar maps a non negative iterator size to the sized characteristic.
func sizedChar(size int64) uint {
	if size >= 0 {
		return spliterator.Sized
	}
	return 0
}

// Iterate returns an infinite sequential stream of seed, f(seed), f(f(seed)) and so on.
func Iterate[T any](seed T, f func(x T) T) Stream[T] {
	return newRoot(func() spliterator.Spliterator[T] {
		return spliterator.Iterate(seed, f)
	}, spliterator.Ordered|spliterator.Infinite)
}

// Generate returns an infinite sequential stream whose elements come from the supplier.
func Generate[T any](supplier func() T) Stream[T] {
	return newRoot(func() spliterator.Spliterator[T] {
		return spliterator.Generate(supplier)
	}, spliterator.Infinite)
}
