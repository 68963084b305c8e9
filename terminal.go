package streams

import (
	"github.com/phantom820/streams/v2/flags"
)

// terminal describes a terminal operation: its flag word, a factory producing a fresh
// result accumulating sink plus its result extractor, and the hooks parallel evaluation
// needs to merge and short circuit partial results. makeSink is invoked once per
// sequential evaluation and once per parallel leaf.
type terminal[T, R any] struct {
	name     string
	word     flags.Word
	makeSink func(word flags.Word) (Sink[T], func() R)

	// combine merges the results of two sibling subtrees, left before right in encounter
	// order. nil when partial results carry no information (for each).
	combine func(a, b R) R

	// empty is the result a canceled task installs.
	empty func() R

	// onLeaf runs after a leaf computation with the leaf's task handle, whether sink
	// cancellation cut the leaf short, and the leaf result. Short circuit terminals use it
	// to publish the shared result or cancel later siblings.
	onLeaf func(c taskControl, canceled bool, r R)

	// resolve folds the shared short circuit slot into the root result.
	resolve func(slot *R, root R) R
}

// evaluate runs the terminal operation on the stage, dispatching on the pipeline mode.
func evaluate[T, R any](s *stream[T], t terminal[T, R]) R {
	s.prepareConsume()
	defer wrapUserPanic()
	h := newHelper(&s.stageInfo, t.word)
	if h.parallel {
		return evaluateParallel(h, t)
	}
	return evaluateSequential(h, t)
}

// wrapUserPanic rethrows panics escaping an evaluation, wrapping values raised by user
// supplied callbacks so the caller observes a single error surface. Stream errors pass
// through unchanged.
func wrapUserPanic() {
	if r := recover(); r != nil {
		if err, ok := r.(*Error); ok {
			panic(err)
		}
		panic(errUserCallback(r))
	}
}

// evaluateSequential pulls the source through the wrapped sink chain on the calling
// goroutine, using the cancellation checked loop only when a short circuit is possible.
func evaluateSequential[T, R any](h *helper, t terminal[T, R]) R {
	snk, extract := t.makeSink(h.word)
	wrapped := h.wrap(snk)
	if h.word.Knows(flags.ShortCircuit) {
		h.drv.copyCancel(wrapped, h.sp)
	} else {
		h.drv.copyInto(wrapped, h.sp)
	}
	return extract()
}
