package streams

import (
	"github.com/phantom820/streams/v2/flags"
)

// matchKind selects the quantifier a match terminal evaluates.
type matchKind int

const (
	matchAny matchKind = iota
	matchAll
	matchNone
)

// stopOn returns the predicate outcome that halts traversal for the kind.
func (k matchKind) stopOn() bool {
	return k != matchAll
}

// answerWhenHalted returns the terminal result when the halting outcome was observed.
func (k matchKind) answerWhenHalted() bool {
	return k == matchAny
}

// matchSink observes elements until the kind's halting outcome appears, then requests
// cancellation.
type matchSink[T any] struct {
	f      func(x T) bool
	kind   matchKind
	halted bool
}

func (s *matchSink[T]) Begin(size uint64) {
	s.halted = false
}

func (s *matchSink[T]) End() {}

func (s *matchSink[T]) CancellationRequested() bool {
	return s.halted
}

func (s *matchSink[T]) Accept(x T) {
	if s.halted {
		return
	}
	if s.f(x) == s.kind.stopOn() {
		s.halted = true
	}
}

// match evaluates the quantified predicate terminal. A leaf that observes the halting
// outcome publishes it through the shared short circuit slot so sibling leaves abort.
func match[T any](s *stream[T], f func(x T) bool, kind matchKind) bool {
	halted := evaluate(s, terminal[T, bool]{
		name: "MATCH",
		word: flags.Set(flags.ShortCircuit),
		makeSink: func(word flags.Word) (Sink[T], func() bool) {
			snk := &matchSink[T]{f: f, kind: kind}
			return snk, func() bool { return snk.halted }
		},
		combine: func(a, b bool) bool { return a || b },
		empty:   func() bool { return false },
		onLeaf: func(c taskControl, canceled bool, hit bool) {
			if hit {
				c.ShortCircuitRaw(true)
			}
		},
		resolve: func(slot *bool, root bool) bool {
			return root || (slot != nil && *slot)
		},
	})
	if halted {
		return kind.answerWhenHalted()
	}
	return !kind.answerWhenHalted()
}

// AnyMatch returns whether any element satisfies the predicate. False on an empty stream.
func (s *stream[T]) AnyMatch(f func(x T) bool) bool {
	return match(s, f, matchAny)
}

// AllMatch returns whether every element satisfies the predicate. True on an empty stream.
func (s *stream[T]) AllMatch(f func(x T) bool) bool {
	return match(s, f, matchAll)
}

// NoneMatch returns whether no element satisfies the predicate. True on an empty stream.
func (s *stream[T]) NoneMatch(f func(x T) bool) bool {
	return match(s, f, matchNone)
}
