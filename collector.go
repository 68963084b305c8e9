package streams

import (
	"github.com/phantom820/streams/v2/flags"
)

// Collector a mutable reduction: the supplier creates a result container, the accumulator
// folds an element into it and the combiner merges two containers. A concurrent collector
// advertises that one container may be accumulated into from multiple goroutines, in
// which case parallel collection shares a single container instead of merging per leaf
// containers.
type Collector[T, R any] struct {
	Supplier    func() R
	Accumulator func(r R, x T) R
	Combiner    func(a, b R) R
	Concurrent  bool
}

// collectorSink folds elements into a fresh container from the supplier.
type collectorSink[T, R any] struct {
	c   Collector[T, R]
	acc R
}

func (s *collectorSink[T, R]) Begin(size uint64) {
	s.acc = s.c.Supplier()
}

func (s *collectorSink[T, R]) End() {}

func (s *collectorSink[T, R]) CancellationRequested() bool {
	return false
}

func (s *collectorSink[T, R]) Accept(x T) {
	s.acc = s.c.Accumulator(s.acc, x)
}

// sharedCollectorSink folds elements into a container shared across leaves.
type sharedCollectorSink[T, R any] struct {
	c   Collector[T, R]
	acc R
}

func (s *sharedCollectorSink[T, R]) Begin(size uint64) {}

func (s *sharedCollectorSink[T, R]) End() {}

func (s *sharedCollectorSink[T, R]) CancellationRequested() bool {
	return false
}

func (s *sharedCollectorSink[T, R]) Accept(x T) {
	s.c.Accumulator(s.acc, x)
}

// Collect performs a mutable reduction of the stream with the given collector.
func Collect[T, R any](s Stream[T], c Collector[T, R]) R {
	st := asStage(s, "COLLECT")
	if c.Concurrent {
		shared := c.Supplier()
		return evaluate(st, terminal[T, R]{
			name: "COLLECT",
			word: flags.Clear(flags.Ordered),
			makeSink: func(word flags.Word) (Sink[T], func() R) {
				return &sharedCollectorSink[T, R]{c: c, acc: shared}, func() R { return shared }
			},
			combine: func(a, b R) R { return shared },
			empty:   func() R { return shared },
		})
	}
	return evaluate(st, terminal[T, R]{
		name: "COLLECT",
		makeSink: func(word flags.Word) (Sink[T], func() R) {
			snk := &collectorSink[T, R]{c: c}
			return snk, func() R { return snk.acc }
		},
		combine: c.Combiner,
		empty:   c.Supplier,
	})
}

// ToSliceCollector returns a collector accumulating the elements into a slice in
// encounter order.
func ToSliceCollector[T any]() Collector[T, []T] {
	return Collector[T, []T]{
		Supplier:    func() []T { return make([]T, 0) },
		Accumulator: func(r []T, x T) []T { return append(r, x) },
		Combiner:    func(a, b []T) []T { return append(a, b...) },
	}
}

// GroupBy returns a collector grouping the elements by the given key function.
func GroupBy[T any, K comparable](key func(x T) K) Collector[T, map[K][]T] {
	return Collector[T, map[K][]T]{
		Supplier: func() map[K][]T { return make(map[K][]T) },
		Accumulator: func(r map[K][]T, x T) map[K][]T {
			k := key(x)
			r[k] = append(r[k], x)
			return r
		},
		Combiner: func(a, b map[K][]T) map[K][]T {
			for k, v := range b {
				a[k] = append(a[k], v...)
			}
			return a
		},
	}
}

// Partition returns a collector splitting the elements by the given predicate.
func Partition[T any](f func(x T) bool) Collector[T, map[bool][]T] {
	return Collector[T, map[bool][]T]{
		Supplier: func() map[bool][]T { return make(map[bool][]T) },
		Accumulator: func(r map[bool][]T, x T) map[bool][]T {
			k := f(x)
			r[k] = append(r[k], x)
			return r
		},
		Combiner: func(a, b map[bool][]T) map[bool][]T {
			for k, v := range b {
				a[k] = append(a[k], v...)
			}
			return a
		},
	}
}
