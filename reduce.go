package streams

import (
	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/node"
	"github.com/phantom820/streams/v2/spliterator"
)

// ForEach performs the given action on each element of the stream. The action must be
// safe to invoke from multiple goroutines when the stream is parallel; no ordering is
// guaranteed.
func (s *stream[T]) ForEach(f func(x T)) {
	evaluate(s, terminal[T, struct{}]{
		name: "FOR_EACH",
		word: flags.Clear(flags.Ordered),
		makeSink: func(word flags.Word) (Sink[T], func() struct{}) {
			return &consumerSink[T]{f: f}, func() struct{} { return struct{}{} }
		},
	})
}

// ForEachUntil performs the given action on each element until the stop predicate
// reports true. The predicate is polled before each pull from the source.
func (s *stream[T]) ForEachUntil(f func(x T), stop func() bool) {
	evaluate(s, terminal[T, struct{}]{
		name: "FOR_EACH_UNTIL",
		word: flags.Clear(flags.Ordered).Or(flags.Set(flags.ShortCircuit)),
		makeSink: func(word flags.Word) (Sink[T], func() struct{}) {
			return &consumerSink[T]{f: f, stop: stop}, func() struct{} { return struct{}{} }
		},
	})
}

// foldSink folds elements into an accumulator seeded with the identity.
type foldSink[T any] struct {
	identity T
	f        func(x, y T) T
	acc      T
}

func (s *foldSink[T]) Begin(size uint64) {
	s.acc = s.identity
}

func (s *foldSink[T]) End() {}

func (s *foldSink[T]) CancellationRequested() bool {
	return false
}

func (s *foldSink[T]) Accept(x T) {
	s.acc = s.f(s.acc, x)
}

// Fold reduces the stream with the associative function starting from the identity. In
// parallel each leaf folds from the identity and partial results combine with the same
// function in encounter order.
func (s *stream[T]) Fold(identity T, f func(x, y T) T) T {
	return evaluate(s, terminal[T, T]{
		name: "FOLD",
		makeSink: func(word flags.Word) (Sink[T], func() T) {
			snk := &foldSink[T]{identity: identity, f: f}
			return snk, func() T { return snk.acc }
		},
		combine: f,
		empty:   func() T { return identity },
	})
}

// reduceSink folds elements into an optional accumulator, absent until the first
// element.
type reduceSink[T any] struct {
	f   func(x, y T) T
	acc T
	has bool
}

func (s *reduceSink[T]) Begin(size uint64) {
	var zero T
	s.acc, s.has = zero, false
}

func (s *reduceSink[T]) End() {}

func (s *reduceSink[T]) CancellationRequested() bool {
	return false
}

func (s *reduceSink[T]) Accept(x T) {
	if !s.has {
		s.acc, s.has = x, true
		return
	}
	s.acc = s.f(s.acc, x)
}

// optional a value that may be absent.
type optional[T any] struct {
	value   T
	present bool
}

// Reduce reduces the stream with the associative function. The second result is false
// when the stream has no elements; a single element stream yields that element without
// invoking the function.
func (s *stream[T]) Reduce(f func(x, y T) T) (T, bool) {
	result := evaluate(s, terminal[T, optional[T]]{
		name: "REDUCE",
		makeSink: func(word flags.Word) (Sink[T], func() optional[T]) {
			snk := &reduceSink[T]{f: f}
			return snk, func() optional[T] { return optional[T]{value: snk.acc, present: snk.has} }
		},
		combine: func(a, b optional[T]) optional[T] {
			if !a.present {
				return b
			} else if !b.present {
				return a
			}
			return optional[T]{value: f(a.value, b.value), present: true}
		},
		empty: func() optional[T] { return optional[T]{} },
	})
	return result.value, result.present
}

// countSink counts accepted elements.
type countSink[T any] struct {
	n int
}

func (s *countSink[T]) Begin(size uint64) {}

func (s *countSink[T]) End() {}

func (s *countSink[T]) CancellationRequested() bool {
	return false
}

func (s *countSink[T]) Accept(x T) {
	s.n++
}

// Count returns a count of elements in the stream.
func (s *stream[T]) Count() int {
	return evaluate(s, terminal[T, int]{
		name: "COUNT",
		makeSink: func(word flags.Word) (Sink[T], func() int) {
			snk := &countSink[T]{}
			return snk, func() int { return snk.n }
		},
		combine: func(a, b int) int { return a + b },
		empty:   func() int { return 0 },
	})
}

// lazyBuilder defers the choice between the pre sized and the spined node builder until
// the size announcement arrives.
type lazyBuilder[T any] struct {
	inner node.Builder[T]
}

func (b *lazyBuilder[T]) Begin(size uint64) {
	if size != spliterator.MaxSize && size <= node.MaxSliceSize {
		b.inner = node.Fixed[T](size)
	} else {
		b.inner = node.Spined[T]()
	}
	b.inner.Begin(size)
}

func (b *lazyBuilder[T]) End() {
	b.inner.End()
}

func (b *lazyBuilder[T]) CancellationRequested() bool {
	return false
}

func (b *lazyBuilder[T]) Accept(x T) {
	b.inner.Accept(x)
}

func (b *lazyBuilder[T]) Build() node.Node[T] {
	if b.inner == nil {
		return node.Empty[T]()
	}
	return b.inner.Build()
}

// ToSlice returns a slice containing the elements from the stream.
func (s *stream[T]) ToSlice() []T {
	collected := evaluate(s, terminal[T, node.Node[T]]{
		name: "TO_SLICE",
		makeSink: func(word flags.Word) (Sink[T], func() node.Node[T]) {
			builder := &lazyBuilder[T]{}
			return builder, builder.Build
		},
		combine: node.Concat[T],
		empty:   node.Empty[T],
	})
	if collected.Count() > node.MaxSliceSize {
		panic(errSizeExceedsMaxSlice(collected.Count()))
	}
	return collected.ToSlice()
}
