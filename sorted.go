package streams

import (
	"sync"
	"sync/atomic"

	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/node"
	"github.com/phantom820/streams/v2/pool"
	"github.com/phantom820/streams/v2/spliterator"
	"golang.org/x/exp/slices"
)

// sortedSink buffers the whole upstream, sorts on end and pushes the sorted run
// downstream, honoring downstream cancellation while emitting.
type sortedSink[T any] struct {
	chained
	down Sink[T]
	cmp  func(a, b T) int
	buf  []T
}

func (s *sortedSink[T]) Begin(size uint64) {
	if size != spliterator.MaxSize {
		if size > node.MaxSliceSize {
			panic(errSizeExceedsMaxSlice(size))
		}
		s.buf = make([]T, 0, size)
	}
}

func (s *sortedSink[T]) Accept(x T) {
	s.buf = append(s.buf, x)
}

func (s *sortedSink[T]) CancellationRequested() bool {
	// The buffered run must complete before downstream truncation can apply.
	return false
}

func (s *sortedSink[T]) End() {
	slices.SortStableFunc(s.buf, s.cmp)
	s.down.Begin(uint64(len(s.buf)))
	for _, x := range s.buf {
		if s.down.CancellationRequested() {
			break
		}
		s.down.Accept(x)
	}
	s.down.End()
	s.buf = nil
}

// Sorted returns a stream consisting of the elements of the stream in the order induced
// by the comparison function. A stream that is already sorted passes through unchanged.
func (s *stream[T]) Sorted(cmp func(a, b T) int) Stream[T] {
	return appendStage(s, opInfo{name: sortedOpName, stateful: true},
		flags.Set(flags.Sorted).Or(flags.Set(flags.Ordered)),
		func(upWord flags.Word, down Sink[T]) Sink[T] {
			if upWord.Knows(flags.Sorted) {
				return down
			}
			return &sortedSink[T]{chained: chained{downstream: down}, down: down, cmp: cmp}
		},
		sortedBoundary[T](cmp))
}

// sortedBoundary collects the upstream segment into a flat node, merge sorts it in place
// on the pool and re-roots the pipeline at the sorted run.
func sortedBoundary[T any](cmp func(a, b T) int) func(sub *helper) (*driver, any, flags.Word, []*stageInfo) {
	return func(sub *helper) (*driver, any, flags.Word, []*stageInfo) {
		if sub.word.Knows(flags.Sorted) {
			return sub.drv, sub.sp, flags.Combine(flags.Set(flags.Ordered), sub.word), sub.segment
		}
		data := collectNode[T](sub, true).ToSlice()
		parallelMergeSort(data, cmp, sub.pl)
		word := flags.Combine(flags.Set(flags.Sized).Or(flags.Set(flags.Sorted)).Or(flags.Set(flags.Ordered)), sub.word)
		return newDriver[T](), spliterator.OfSliceWith(data, spliterator.Sorted), word, nil
	}
}

// sequentialSortCutoff is the run length under which sorting proceeds on the calling
// goroutine.
const sequentialSortCutoff = 1 << 13

// parallelMergeSort stable sorts the slice, halving recursively onto the pool down to the
// pool's parallelism depth. A panic raised by the comparison function on a worker is
// rethrown on the calling goroutine after all workers have drained.
func parallelMergeSort[T any](data []T, cmp func(a, b T) int, pl pool.Pool) {
	depth := 0
	for p := pl.Parallelism(); p > 1; p >>= 1 {
		depth++
	}
	if depth == 0 || len(data) < sequentialSortCutoff {
		slices.SortStableFunc(data, cmp)
		return
	}
	var failure atomic.Pointer[panicValue]
	guard := func(f func()) {
		defer func() {
			if r := recover(); r != nil {
				failure.CompareAndSwap(nil, &panicValue{value: r})
			}
		}()
		f()
	}
	var rec func(d, tmp []T, depth int)
	rec = func(d, tmp []T, depth int) {
		if depth == 0 || len(d) < sequentialSortCutoff {
			guard(func() { slices.SortStableFunc(d, cmp) })
			return
		}
		mid := len(d) / 2
		var wg sync.WaitGroup
		wg.Add(1)
		pl.Submit(pool.Func(func() {
			defer wg.Done()
			rec(d[:mid], tmp[:mid], depth-1)
		}))
		rec(d[mid:], tmp[mid:], depth-1)
		wg.Wait()
		if failure.Load() == nil {
			guard(func() { mergeRuns(d, mid, tmp, cmp) })
		}
	}
	rec(data, make([]T, len(data)), depth)
	if pv := failure.Load(); pv != nil {
		panic(pv.value)
	}
}

// mergeRuns merges the sorted runs d[:mid] and d[mid:] stably through the scratch slice.
func mergeRuns[T any](d []T, mid int, tmp []T, cmp func(a, b T) int) {
	copy(tmp, d)
	i, j := 0, mid
	for k := 0; k < len(d); k++ {
		switch {
		case i >= mid:
			d[k] = tmp[j]
			j++
		case j >= len(d):
			d[k] = tmp[i]
			i++
		case cmp(tmp[j], tmp[i]) < 0:
			d[k] = tmp[j]
			j++
		default:
			d[k] = tmp[i]
			i++
		}
	}
}
