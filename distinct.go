package streams

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/phantom820/collections/sets/hashset"
	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/node"
	"github.com/phantom820/streams/v2/spliterator"
)

// entry this type allows us to use sets for the Distinct operation.
type entry[T any] struct {
	value    T
	equals   func(a, b T) bool
	hashCode func(a T) int
}

// Equals required by Hashable for using a set.
func (a entry[T]) Equals(b entry[T]) bool {
	return a.equals(a.value, b.value)
}

// HashCode produces the hash code of the element.
func (a entry[T]) HashCode() int {
	return a.hashCode(a.value)
}

// distinctWord is the flag word of the distinct operation.
func distinctWord() flags.Word {
	return flags.Set(flags.Distinct).Or(flags.Clear(flags.Sized))
}

// distinctSortedSink drops adjacent duplicates, the constant memory strategy available
// when the upstream is sorted.
type distinctSortedSink[T any] struct {
	chained
	down   Sink[T]
	equals func(a, b T) bool
	last   T
	seen   bool
}

func (s *distinctSortedSink[T]) Begin(size uint64) {
	s.seen = false
	s.downstream.Begin(spliterator.MaxSize)
}

func (s *distinctSortedSink[T]) Accept(x T) {
	if s.seen && s.equals(s.last, x) {
		return
	}
	s.last = x
	s.seen = true
	s.down.Accept(x)
}

// distinctSetSink accumulates seen elements in a hash set, the general strategy.
type distinctSetSink[T any] struct {
	chained
	down     Sink[T]
	equals   func(a, b T) bool
	hashCode func(a T) int
	set      *hashset.HashSet[entry[T]]
}

func (s *distinctSetSink[T]) Begin(size uint64) {
	s.set = hashset.New[entry[T]]()
	s.downstream.Begin(spliterator.MaxSize)
}

func (s *distinctSetSink[T]) Accept(x T) {
	e := entry[T]{value: x, equals: s.equals, hashCode: s.hashCode}
	if s.set.Contains(e) {
		return
	}
	s.set.Add(e)
	s.down.Accept(x)
}

// Distinct returns a stream consisting of distinct elements. Elements are distinguished
// using equality and hash code. An already distinct upstream passes through unchanged and
// a sorted upstream is deduplicated by comparing against the last element seen.
func (s *stream[T]) Distinct(equals func(a, b T) bool, hash func(x T) int) Stream[T] {
	return appendStage(s, opInfo{name: distinctOpName, stateful: true}, distinctWord(),
		func(upWord flags.Word, down Sink[T]) Sink[T] {
			if upWord.Knows(flags.Distinct) {
				return down
			} else if upWord.Knows(flags.Sorted) {
				return &distinctSortedSink[T]{chained: chained{downstream: down}, down: down, equals: equals}
			}
			return &distinctSetSink[T]{chained: chained{downstream: down}, down: down, equals: equals, hashCode: hash}
		},
		distinctBoundary[T](equals, hash))
}

// distinctBoundary re-roots a parallel pipeline at the deduplicated node. A sorted
// upstream deduplicates per leaf and drops duplicates straddling leaf boundaries while
// combining; otherwise each leaf deduplicates locally and a final pass removes cross leaf
// duplicates.
func distinctBoundary[T any](equals func(a, b T) bool, hash func(x T) int) func(sub *helper) (*driver, any, flags.Word, []*stageInfo) {
	return func(sub *helper) (*driver, any, flags.Word, []*stageInfo) {
		if sub.word.Knows(flags.Distinct) {
			return sub.drv, sub.sp, sub.word, sub.segment
		}
		var collected node.Node[T]
		if sub.word.Knows(flags.Sorted) {
			collected = dedupSortedParallel(sub, equals)
		} else {
			collected = dedupSetParallel(sub, equals, hash)
		}
		word := flags.Combine(flags.Set(flags.Distinct).Or(flags.Set(flags.Sized)), sub.word)
		return newDriver[T](), collected.Spliterator(), word, nil
	}
}

// sortedRun a deduplicated run of a sorted upstream plus its bounding elements, so that
// runs can merge without re-examining their interiors.
type sortedRun[T any] struct {
	n           node.Node[T]
	first, last T
	has         bool
}

// sortedDedupLeaf deduplicates a sorted leaf into a builder, recording the run bounds.
type sortedDedupLeaf[T any] struct {
	builder node.Builder[T]
	equals  func(a, b T) bool
	first   T
	last    T
	has     bool
}

func (s *sortedDedupLeaf[T]) Begin(size uint64) {}

func (s *sortedDedupLeaf[T]) End() {}

func (s *sortedDedupLeaf[T]) CancellationRequested() bool {
	return false
}

func (s *sortedDedupLeaf[T]) Accept(x T) {
	if s.has && s.equals(s.last, x) {
		return
	}
	if !s.has {
		s.first = x
	}
	s.last = x
	s.has = true
	s.builder.Accept(x)
}

// dedupSortedParallel deduplicates a sorted upstream per leaf, concatenating runs in
// encounter order and dropping the head of a right run equal to the tail of its left
// sibling.
func dedupSortedParallel[T any](sub *helper, equals func(a, b T) bool) node.Node[T] {
	t := terminal[T, sortedRun[T]]{
		name: distinctOpName,
		makeSink: func(word flags.Word) (Sink[T], func() sortedRun[T]) {
			leaf := &sortedDedupLeaf[T]{builder: node.Spined[T](), equals: equals}
			return leaf, func() sortedRun[T] {
				return sortedRun[T]{n: leaf.builder.Build(), first: leaf.first, last: leaf.last, has: leaf.has}
			}
		},
		combine: func(a, b sortedRun[T]) sortedRun[T] {
			if !a.has {
				return b
			} else if !b.has {
				return a
			}
			right := b.n
			if equals(a.last, b.first) {
				right = node.Truncate(right, 1, right.Count())
			}
			if right.Count() == 0 {
				return a
			}
			return sortedRun[T]{n: node.Concat(a.n, right), first: a.first, last: b.last, has: true}
		},
		empty: func() sortedRun[T] { return sortedRun[T]{} },
	}
	run := evaluateParallel(sub, t)
	if !run.has {
		return node.Empty[T]()
	}
	return run.n
}

// dedupSetParallel deduplicates each leaf locally with a hash set, then removes cross
// leaf duplicates in one final sequential pass over the concatenated node.
func dedupSetParallel[T any](sub *helper, equals func(a, b T) bool, hash func(x T) int) node.Node[T] {
	t := terminal[T, node.Node[T]]{
		name: distinctOpName,
		makeSink: func(word flags.Word) (Sink[T], func() node.Node[T]) {
			builder := node.Spined[T]()
			dedup := &distinctSetSink[T]{chained: chained{downstream: builder}, down: builder, equals: equals, hashCode: hash}
			return dedup, builder.Build
		},
		combine: node.Concat[T],
		empty:   node.Empty[T],
	}
	collected := evaluateParallel(sub, t)
	set := hashset.New[entry[T]]()
	final := node.Spined[T]()
	collected.ForEach(func(x T) {
		e := entry[T]{value: x, equals: equals, hashCode: hash}
		if set.Contains(e) {
			return
		}
		set.Add(e)
		final.Accept(x)
	})
	return final.Build()
}

// comparableDedupSink drops previously seen elements of a comparable type.
type comparableDedupSink[T comparable] struct {
	chained
	down Sink[T]
	seen map[T]struct{}
}

func (s *comparableDedupSink[T]) Begin(size uint64) {
	s.seen = make(map[T]struct{})
	s.downstream.Begin(spliterator.MaxSize)
}

func (s *comparableDedupSink[T]) Accept(x T) {
	if _, ok := s.seen[x]; ok {
		return
	}
	s.seen[x] = struct{}{}
	s.down.Accept(x)
}

// concurrentDedupSink forwards elements admitted by a thread safe set shared across the
// leaves of one parallel evaluation.
type concurrentDedupSink[T comparable] struct {
	chained
	down Sink[T]
	set  mapset.Set[T]
}

func (s *concurrentDedupSink[T]) Accept(x T) {
	if s.set.Add(x) {
		s.down.Accept(x)
	}
}

// DistinctComparable returns a stream consisting of the distinct elements of the given
// stream, distinguished by language equality. Under unordered parallel evaluation the
// leaves share one concurrent set.
func DistinctComparable[T comparable](s Stream[T]) Stream[T] {
	st := asStage(s, distinctOpName)
	return appendStage(st, opInfo{name: distinctOpName, stateful: true}, distinctWord(),
		func(upWord flags.Word, down Sink[T]) Sink[T] {
			if upWord.Knows(flags.Distinct) {
				return down
			} else if upWord.Knows(flags.Sorted) {
				return &distinctSortedSink[T]{chained: chained{downstream: down}, down: down, equals: func(a, b T) bool { return a == b }}
			}
			return &comparableDedupSink[T]{chained: chained{downstream: down}, down: down}
		},
		comparableDistinctBoundary[T]())
}

// comparableDistinctBoundary deduplicates in parallel, preserving encounter order with a
// per leaf and merge strategy when the upstream is ordered, and racing leaves over one
// concurrent set otherwise.
func comparableDistinctBoundary[T comparable]() func(sub *helper) (*driver, any, flags.Word, []*stageInfo) {
	equals := func(a, b T) bool { return a == b }
	return func(sub *helper) (*driver, any, flags.Word, []*stageInfo) {
		if sub.word.Knows(flags.Distinct) {
			return sub.drv, sub.sp, sub.word, sub.segment
		}
		var collected node.Node[T]
		switch {
		case sub.word.Knows(flags.Sorted):
			collected = dedupSortedParallel(sub, equals)
		case sub.word.Knows(flags.Ordered):
			collected = dedupOrderedComparableParallel[T](sub)
		default:
			collected = dedupConcurrentParallel[T](sub)
		}
		word := flags.Combine(flags.Set(flags.Distinct).Or(flags.Set(flags.Sized)), sub.word)
		return newDriver[T](), collected.Spliterator(), word, nil
	}
}

// dedupOrderedComparableParallel deduplicates each leaf locally, then removes cross leaf
// duplicates in one final encounter ordered pass.
func dedupOrderedComparableParallel[T comparable](sub *helper) node.Node[T] {
	t := terminal[T, node.Node[T]]{
		name: distinctOpName,
		makeSink: func(word flags.Word) (Sink[T], func() node.Node[T]) {
			builder := node.Spined[T]()
			dedup := &comparableDedupSink[T]{chained: chained{downstream: builder}, down: builder}
			dedup.seen = make(map[T]struct{})
			return dedup, builder.Build
		},
		combine: node.Concat[T],
		empty:   node.Empty[T],
	}
	collected := evaluateParallel(sub, t)
	seen := make(map[T]struct{})
	final := node.Spined[T]()
	collected.ForEach(func(x T) {
		if _, ok := seen[x]; ok {
			return
		}
		seen[x] = struct{}{}
		final.Accept(x)
	})
	return final.Build()
}

// dedupConcurrentParallel races all leaves over one thread safe set. Which duplicate
// survives is unspecified, acceptable for an unordered upstream.
func dedupConcurrentParallel[T comparable](sub *helper) node.Node[T] {
	shared := mapset.NewSet[T]()
	t := terminal[T, node.Node[T]]{
		name: distinctOpName,
		makeSink: func(word flags.Word) (Sink[T], func() node.Node[T]) {
			builder := node.Spined[T]()
			dedup := &concurrentDedupSink[T]{chained: chained{downstream: builder}, down: builder, set: shared}
			return dedup, builder.Build
		},
		combine: node.Concat[T],
		empty:   node.Empty[T],
	}
	return evaluateParallel(sub, t)
}
