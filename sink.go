package streams

import (
	"fmt"

	"github.com/phantom820/streams/v2/spliterator"
)

// control is the lifecycle end of a sink, independent of the element type it consumes.
// Wrapped sink chains are threaded through the pipeline as controls and re-typed at each
// stage boundary.
type control interface {
	Begin(size uint64)            // Announces that elements are incoming, size is an upper bound on their count, spliterator.MaxSize when unknown.
	End()                         // Announces that all elements have been pushed. A buffering sink emits here.
	CancellationRequested() bool  // Reports whether the sink wants no further elements. Must not have side effects.
}

// Sink a push model consumer of elements. The lifecycle is Begin, zero or more Accepts,
// End; CancellationRequested may be polled between Accepts and once true stays true.
type Sink[T any] interface {
	control
	Accept(x T) // Consumes one element.
}

// asSink re-types an erased sink chain link. A mismatch means an operation was linked to a
// stage of the wrong shape and is fatal.
func asSink[T any](c control) Sink[T] {
	s, ok := c.(Sink[T])
	if !ok {
		var want T
		panic(errShapeMismatch(fmt.Sprintf("%T", c), fmt.Sprintf("%T", want)))
	}
	return s
}

// chained forwards lifecycle calls to the downstream sink. Op sinks embed it and override
// what their operation changes.
type chained struct {
	downstream control
}

func (c chained) Begin(size uint64) {
	c.downstream.Begin(size)
}

func (c chained) End() {
	c.downstream.End()
}

func (c chained) CancellationRequested() bool {
	return c.downstream.CancellationRequested()
}

// boxedSink adapts a typed sink to an any accepting one. Taking the boxed accept path on a
// typed pipeline defeats fusion, so the first accept trips the diagnostic channel.
type boxedSink[T any] struct {
	chained
	down    Sink[T]
	tripped bool
}

// Boxed returns a sink accepting any that forwards to the typed sink, reporting a
// ShapeMismatch error for elements of the wrong dynamic type.
func Boxed[T any](down Sink[T]) Sink[any] {
	return &boxedSink[T]{chained: chained{downstream: down}, down: down}
}

func (s *boxedSink[T]) Accept(x any) {
	if !s.tripped {
		s.tripped = true
		Tripwire.trip(fmt.Sprintf("streams: boxed accept taken on a %T path", s.down))
	}
	v, ok := x.(T)
	if !ok {
		var want T
		panic(errShapeMismatch(fmt.Sprintf("%T", x), fmt.Sprintf("%T", want)))
	}
	s.down.Accept(v)
}

// consumerSink pushes every element into a callback. Used by for each style terminals.
type consumerSink[T any] struct {
	f    func(x T)
	stop func() bool
}

func (s *consumerSink[T]) Begin(size uint64) {}

func (s *consumerSink[T]) End() {}

func (s *consumerSink[T]) CancellationRequested() bool {
	return s.stop != nil && s.stop()
}

func (s *consumerSink[T]) Accept(x T) {
	s.f(x)
}

// copyInto drives a spliterator into a typed sink without cancellation checks.
func copyInto[T any](snk Sink[T], sp spliterator.Spliterator[T]) {
	size, ok := spliterator.ExactSizeIfKnown(sp)
	if !ok {
		size = spliterator.MaxSize
	}
	snk.Begin(size)
	spliterator.ForEachRemaining(sp, snk.Accept)
	snk.End()
}

// copyIntoWithCancel drives a spliterator into a typed sink, polling for cancellation
// before each pull. Reports whether cancellation cut the traversal short.
func copyIntoWithCancel[T any](snk Sink[T], sp spliterator.Spliterator[T]) bool {
	size, ok := spliterator.ExactSizeIfKnown(sp)
	if !ok {
		size = spliterator.MaxSize
	}
	snk.Begin(size)
	canceled := false
	for {
		if snk.CancellationRequested() {
			canceled = true
			break
		}
		if !sp.TryAdvance(snk.Accept) {
			break
		}
	}
	snk.End()
	return canceled
}
