package streams

import (
	"github.com/phantom820/streams/v2/flags"
)

// findSink captures the first element it sees and requests cancellation.
type findSink[T any] struct {
	value T
	has   bool
}

func (s *findSink[T]) Begin(size uint64) {
	var zero T
	s.value, s.has = zero, false
}

func (s *findSink[T]) End() {}

func (s *findSink[T]) CancellationRequested() bool {
	return s.has
}

func (s *findSink[T]) Accept(x T) {
	if !s.has {
		s.value, s.has = x, true
	}
}

// find evaluates a find terminal. When the first element in encounter order is required,
// a hit on the left spine of the task tree short circuits the whole evaluation while a
// hit elsewhere only cancels tasks later in encounter order, since an earlier leaf may
// still produce an earlier element; results then combine left preferentially. When any
// element will do, every hit short circuits the whole evaluation and the leftmost hit
// among the leaves that ran is returned.
func find[T any](s *stream[T], mustFindFirst bool) (T, bool) {
	word := flags.Set(flags.ShortCircuit)
	if !mustFindFirst {
		word = word.Or(flags.Clear(flags.Ordered))
	}
	result := evaluate(s, terminal[T, optional[T]]{
		name: "FIND",
		word: word,
		makeSink: func(w flags.Word) (Sink[T], func() optional[T]) {
			snk := &findSink[T]{}
			return snk, func() optional[T] { return optional[T]{value: snk.value, present: snk.has} }
		},
		combine: func(a, b optional[T]) optional[T] {
			if a.present {
				return a
			}
			return b
		},
		empty: func() optional[T] { return optional[T]{} },
		onLeaf: func(c taskControl, canceled bool, r optional[T]) {
			if !r.present {
				return
			}
			if !mustFindFirst || c.IsLeftSpine() {
				c.ShortCircuitRaw(r)
				return
			}
			c.CancelLaterSiblings()
		},
		resolve: func(slot *optional[T], root optional[T]) optional[T] {
			if root.present {
				return root
			}
			if slot != nil {
				return *slot
			}
			return root
		},
	})
	return result.value, result.present
}

// FindFirst returns the first element in encounter order, false when the stream is empty.
func (s *stream[T]) FindFirst() (T, bool) {
	return find(s, true)
}

// FindAny returns some element of the stream, false when the stream is empty.
func (s *stream[T]) FindAny() (T, bool) {
	return find(s, false)
}
