package streams

import (
	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/spliterator"
)

// appendStage links a new stage onto the upstream one, combining the op's flag word into
// the accumulated word and recording the erased sink wrapper. The upstream stage must not
// have been operated on before.
func appendStage[IN, OUT any](up *stream[IN], op opInfo, opWord flags.Word,
	makeSink func(upWord flags.Word, down Sink[OUT]) Sink[IN],
	boundaryFn func(sub *helper) (*driver, any, flags.Word, []*stageInfo)) *stream[OUT] {

	up.prepareLink()
	upWord := up.word
	return &stream[OUT]{stageInfo{
		parent: &up.stageInfo,
		root:   up.root,
		depth:  up.depth + 1,
		op:     op,
		opWord: opWord,
		upWord: upWord,
		word:   flags.Combine(opWord, upWord),
		wrapFn: func(down control) control {
			return makeSink(upWord, asSink[OUT](down))
		},
		boundaryFn: boundaryFn,
	}}
}

// asStage recovers the concrete stage behind a Stream for the package level operations.
func asStage[T any](s Stream[T], operation string) *stream[T] {
	st, ok := s.(*stream[T])
	if !ok {
		panic(errIllegalStreamMapping(operation))
	}
	return st
}

// filterSink forwards elements that satisfy the predicate. Dropping elements makes the
// downstream size unknowable, so begin widens to the maximum.
type filterSink[T any] struct {
	chained
	down Sink[T]
	f    func(x T) bool
}

func (s *filterSink[T]) Begin(size uint64) {
	s.downstream.Begin(spliterator.MaxSize)
}

func (s *filterSink[T]) Accept(x T) {
	if s.f(x) {
		s.down.Accept(x)
	}
}

// Filter returns a stream consisting of the elements of this stream that satisfy the given predicate.
func (s *stream[T]) Filter(f func(x T) bool) Stream[T] {
	return appendStage(s, opInfo{name: filterOpName}, flags.Clear(flags.Sized),
		func(upWord flags.Word, down Sink[T]) Sink[T] {
			return &filterSink[T]{chained: chained{downstream: down}, down: down, f: f}
		}, nil)
}

// mapSink forwards the transformed element. Size is preserved.
type mapSink[IN, OUT any] struct {
	chained
	down Sink[OUT]
	f    func(x IN) OUT
}

func (s *mapSink[IN, OUT]) Accept(x IN) {
	s.down.Accept(s.f(x))
}

// Map returns a stream consisting of the results of applying the given transformation to
// the elements of the stream.
func (s *stream[T]) Map(f func(x T) T) Stream[T] {
	return appendStage(s, opInfo{name: mapOpName}, flags.Clear(flags.Sorted).Or(flags.Clear(flags.Distinct)),
		func(upWord flags.Word, down Sink[T]) Sink[T] {
			return &mapSink[T, T]{chained: chained{downstream: down}, down: down, f: f}
		}, nil)
}

// Map returns a stream consisting of the results of applying the given transformation to
// the elements of the given stream. The top level function form admits a change of
// element type, which methods cannot express.
func Map[T, U any](s Stream[T], f func(x T) U) Stream[U] {
	st := asStage(s, mapOpName)
	return appendStage(st, opInfo{name: mapOpName}, flags.Clear(flags.Sorted).Or(flags.Clear(flags.Distinct)),
		func(upWord flags.Word, down Sink[U]) Sink[T] {
			return &mapSink[T, U]{chained: chained{downstream: down}, down: down, f: f}
		}, nil)
}

// peekSink invokes the consumer on each element before forwarding it.
type peekSink[T any] struct {
	chained
	down Sink[T]
	f    func(x T)
}

func (s *peekSink[T]) Accept(x T) {
	s.f(x)
	s.down.Accept(x)
}

// Peek returns a stream consisting of the elements of the stream, additionally invoking
// the given function on each element as it flows past.
func (s *stream[T]) Peek(f func(x T)) Stream[T] {
	return appendStage(s, opInfo{name: peekOpName}, flags.Initial,
		func(upWord flags.Word, down Sink[T]) Sink[T] {
			return &peekSink[T]{chained: chained{downstream: down}, down: down, f: f}
		}, nil)
}

// flatMapSink expands each element into a stream whose elements are pushed downstream.
// The inner stream is always consumed sequentially by the expansion, even when the outer
// pipeline runs in parallel.
type flatMapSink[IN, OUT any] struct {
	chained
	down Sink[OUT]
	f    func(x IN) Stream[OUT]
}

func (s *flatMapSink[IN, OUT]) Begin(size uint64) {
	s.downstream.Begin(spliterator.MaxSize)
}

func (s *flatMapSink[IN, OUT]) Accept(x IN) {
	inner := s.f(x)
	if inner == nil {
		return
	}
	inner.Sequential().ForEachUntil(s.down.Accept, s.down.CancellationRequested)
}

// flatMapWord is the flag word of the flat map operation, expansion forfeits size,
// sortedness and distinctness.
func flatMapWord() flags.Word {
	return flags.Clear(flags.Sized).Or(flags.Clear(flags.Sorted)).Or(flags.Clear(flags.Distinct))
}

// FlatMap returns a stream consisting of the elements of the streams produced by applying
// the given expansion to each element.
func (s *stream[T]) FlatMap(f func(x T) Stream[T]) Stream[T] {
	return appendStage(s, opInfo{name: flatMapOpName}, flatMapWord(),
		func(upWord flags.Word, down Sink[T]) Sink[T] {
			return &flatMapSink[T, T]{chained: chained{downstream: down}, down: down, f: f}
		}, nil)
}

// FlatMap returns a stream consisting of the elements of the streams produced by applying
// the given expansion to each element of the given stream.
func FlatMap[T, U any](s Stream[T], f func(x T) Stream[U]) Stream[U] {
	st := asStage(s, flatMapOpName)
	return appendStage(st, opInfo{name: flatMapOpName}, flatMapWord(),
		func(upWord flags.Word, down Sink[U]) Sink[T] {
			return &flatMapSink[T, U]{chained: chained{downstream: down}, down: down, f: f}
		}, nil)
}
