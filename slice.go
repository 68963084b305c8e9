package streams

import (
	"fmt"

	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/node"
	"github.com/phantom820/streams/v2/spliterator"
)

// noLimit marks an absent limit on a slice operation.
const noLimit = int64(-1)

// sliceSink drops the first skip elements and forwards at most limit elements after
// that. Once the limit is reached the sink requests cancellation so the upstream pull
// loop stops.
type sliceSink[T any] struct {
	chained
	down  Sink[T]
	skip  uint64
	limit int64
	taken int64
}

// sliceSize adjusts the upstream size announcement to the slice window.
func sliceSize(size, skip uint64, limit int64) uint64 {
	if size == spliterator.MaxSize {
		return spliterator.MaxSize
	}
	if skip >= size {
		size = 0
	} else {
		size -= skip
	}
	if limit >= 0 && uint64(limit) < size {
		size = uint64(limit)
	}
	return size
}

func (s *sliceSink[T]) Begin(size uint64) {
	s.downstream.Begin(sliceSize(size, s.skip, s.limit))
}

func (s *sliceSink[T]) Accept(x T) {
	if s.skip > 0 {
		s.skip--
		return
	}
	if s.limit >= 0 && s.taken >= s.limit {
		return
	}
	s.taken++
	s.down.Accept(x)
}

func (s *sliceSink[T]) CancellationRequested() bool {
	return (s.limit >= 0 && s.taken >= s.limit) || s.downstream.CancellationRequested()
}

// sliceWord returns the flag word of a slice operation. Truncation forfeits size and a
// limit makes the pipeline short circuiting.
func sliceWord(limit int64) flags.Word {
	word := flags.Clear(flags.Sized)
	if limit >= 0 {
		word = word.Or(flags.Set(flags.ShortCircuit))
	}
	return word
}

// appendSlice links a slice stage with the given skip and limit.
func appendSlice[T any](s *stream[T], skip uint64, limit int64) Stream[T] {
	return appendStage(s, opInfo{name: sliceOpName, stateful: true}, sliceWord(limit),
		func(upWord flags.Word, down Sink[T]) Sink[T] {
			return &sliceSink[T]{chained: chained{downstream: down}, down: down, skip: skip, limit: limit}
		},
		sliceBoundary[T](skip, limit))
}

// Skip returns a stream that discards the first n elements in encounter order.
func (s *stream[T]) Skip(n int) Stream[T] {
	if n < 0 {
		panic(errIllegalArgument(fmt.Sprint(n), "Skip"))
	} else if n == 0 {
		return s
	}
	return appendSlice(s, uint64(n), noLimit)
}

// Limit returns a stream truncated to at most n elements.
func (s *stream[T]) Limit(n int) Stream[T] {
	if n < 0 {
		panic(errIllegalArgument(fmt.Sprint(n), "Limit"))
	}
	return appendSlice(s, 0, int64(n))
}

// sliceBoundary re-roots a parallel pipeline at the slice window. When the upstream
// segment preserves size and the source splits into exact halves, the window is computed
// per split without materializing anything; otherwise the upstream is collected into a
// node and trimmed.
func sliceBoundary[T any](skip uint64, limit int64) func(sub *helper) (*driver, any, flags.Word, []*stageInfo) {
	return func(sub *helper) (*driver, any, flags.Word, []*stageInfo) {
		to := spliterator.MaxSize
		if limit >= 0 {
			to = skip + uint64(limit)
		}
		chars := sub.drv.chars(sub.sp)
		if sub.word.Knows(flags.Sized) && chars&spliterator.Sized != 0 && chars&spliterator.Uniform != 0 {
			sp := sub.drv.slice(sub.sp, skip, to)
			return sub.drv, sp, sub.word, sub.segment
		}
		collected := node.Truncate(collectNode[T](sub, false), skip, to)
		word := flags.Combine(flags.Set(flags.Sized), sub.word)
		return newDriver[T](), collected.Spliterator(), word, nil
	}
}

// slicedSpliterator exposes the window [from, to) of the absolute encounter positions of
// an exactly splitting spliterator. Splits whose window is empty collapse to the empty
// spliterator so whole leaves outside the window are skipped.
type slicedSpliterator[T any] struct {
	inner spliterator.Spliterator[T]
	cur   uint64
	from  uint64
	to    uint64
}

func newSlicedSpliterator[T any](inner spliterator.Spliterator[T], from, to uint64) spliterator.Spliterator[T] {
	return &slicedSpliterator[T]{inner: inner, cur: 0, from: from, to: to}
}

func (s *slicedSpliterator[T]) TryAdvance(action func(x T)) bool {
	discard := func(x T) {}
	for s.cur < s.from {
		if !s.inner.TryAdvance(discard) {
			return false
		}
		s.cur++
	}
	if s.cur >= s.to {
		return false
	}
	if !s.inner.TryAdvance(action) {
		return false
	}
	s.cur++
	return true
}

func (s *slicedSpliterator[T]) TrySplit() (spliterator.Spliterator[T], bool) {
	if s.cur >= s.to {
		return nil, false
	}
	prefix, ok := s.inner.TrySplit()
	if !ok {
		return nil, false
	}
	size := prefix.EstimateSize()
	lo, hi := s.cur, s.cur+size
	s.cur = hi
	if hi <= s.from || lo >= s.to {
		return spliterator.Empty[T](), true
	}
	return &slicedSpliterator[T]{inner: prefix, cur: lo, from: s.from, to: s.to}, true
}

func (s *slicedSpliterator[T]) EstimateSize() uint64 {
	end := s.cur + s.inner.EstimateSize()
	if s.to < end {
		end = s.to
	}
	start := s.cur
	if s.from > start {
		start = s.from
	}
	if end <= start {
		return 0
	}
	return end - start
}

func (s *slicedSpliterator[T]) Characteristics() uint {
	return s.inner.Characteristics()
}
