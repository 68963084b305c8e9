package streams

import (
	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/pool"
	"github.com/phantom820/streams/v2/spliterator"
)

// stream a pipeline stage with element type T. The erased stage core is embedded so that
// stages of differing element types can chain.
type stream[T any] struct {
	stageInfo
}

// newRoot constructs the source stage of a pipeline.
func newRoot[T any](supplier func() spliterator.Spliterator[T], chars uint) *stream[T] {
	root := &rootState{
		supplier: func() any { return supplier() },
		drv:      newDriver[T](),
		pl:       pool.Default,
	}
	return &stream[T]{stageInfo{root: root, word: flags.FromCharacteristics(chars)}}
}

// Sequential returns an equivalent stream that evaluates sequentially.
func (s *stream[T]) Sequential() Stream[T] {
	if s.state == consumedStage {
		panic(errStreamConsumed())
	}
	s.root.parallel = false
	return s
}

// Parallel returns an equivalent stream that evaluates in parallel on the stream's pool,
// the default pool unless ParallelOn installed another.
func (s *stream[T]) Parallel() Stream[T] {
	if s.state == consumedStage {
		panic(errStreamConsumed())
	}
	s.root.parallel = true
	return s
}

// ParallelOn returns an equivalent stream that evaluates in parallel on the given pool.
func (s *stream[T]) ParallelOn(pl pool.Pool) Stream[T] {
	if s.state == consumedStage {
		panic(errStreamConsumed())
	}
	s.root.parallel = true
	s.root.pl = pl
	return s
}

// IsParallel checks if the stream evaluates in parallel.
func (s *stream[T]) IsParallel() bool {
	return s.root.parallel
}

// Terminated checks if a terminal operation has been invoked on the stream.
func (s *stream[T]) Terminated() bool {
	return s.state == consumedStage
}

// Linked checks if a new stream has been derived from the stream.
func (s *stream[T]) Linked() bool {
	return s.state == linkedStage
}

// Flags returns the combined stream flags at this stage.
func (s *stream[T]) Flags() flags.Word {
	if s.root.parallel {
		return flags.Combine(flags.Set(flags.Parallel), s.word)
	}
	return s.word
}

// Spliterator consumes the stream and returns a spliterator over its elements. For a
// source stage the source spliterator is handed out directly; otherwise the pipeline is
// wrapped into a lazily evaluating pull adapter.
func (s *stream[T]) Spliterator() spliterator.Spliterator[T] {
	s.prepareConsume()
	if s.depth == 0 {
		return s.root.source().(spliterator.Spliterator[T])
	}
	h := newHelper(&s.stageInfo, flags.Initial)
	return newWrappedSpliterator[T](h)
}

// Iterator consumes the stream and returns a sequential iterator over its elements.
func (s *stream[T]) Iterator() spliterator.Iterator[T] {
	return spliterator.ToIterator(s.Spliterator())
}

// bufferSink accumulates pushed elements for pull side consumption.
type bufferSink[T any] struct {
	data []T
	cur  int
}

func (b *bufferSink[T]) Begin(size uint64) {}

func (b *bufferSink[T]) End() {}

func (b *bufferSink[T]) CancellationRequested() bool {
	return false
}

func (b *bufferSink[T]) Accept(x T) {
	b.data = append(b.data, x)
}

// wrappedSpliterator adapts the push model pipeline into a pull model spliterator: each
// advance drives the source until the wrapped sink chain delivers at least one element
// into the buffer. Buffering sinks such as sorted flush on End when the source exhausts.
type wrappedSpliterator[T any] struct {
	h        *helper
	buf      *bufferSink[T]
	wrapped  control
	begun    bool
	finished bool
}

func newWrappedSpliterator[T any](h *helper) spliterator.Spliterator[T] {
	buf := &bufferSink[T]{}
	return &wrappedSpliterator[T]{h: h, buf: buf, wrapped: h.wrap(buf)}
}

func (w *wrappedSpliterator[T]) TryAdvance(action func(x T)) bool {
	if !w.begun {
		w.begun = true
		size, ok := w.h.drv.exact(w.h.sp)
		if !ok {
			size = spliterator.MaxSize
		}
		w.wrapped.Begin(size)
	}
	for w.buf.cur >= len(w.buf.data) {
		if w.finished {
			return false
		}
		w.buf.data = w.buf.data[:0]
		w.buf.cur = 0
		if w.wrapped.CancellationRequested() || !w.h.drv.advance(w.h.sp, w.wrapped) {
			w.wrapped.End()
			w.finished = true
		}
	}
	x := w.buf.data[w.buf.cur]
	w.buf.cur++
	action(x)
	return true
}

func (w *wrappedSpliterator[T]) TrySplit() (spliterator.Spliterator[T], bool) {
	return nil, false
}

func (w *wrappedSpliterator[T]) EstimateSize() uint64 {
	if size, ok := w.h.exactOutputSize(); ok {
		return size
	}
	return spliterator.MaxSize
}

func (w *wrappedSpliterator[T]) Characteristics() uint {
	return w.h.word.ToCharacteristics()
}
