package streams

import (
	"sync"
	"sync/atomic"

	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/pool"
	"github.com/phantom820/streams/v2/spliterator"
)

// sizeSwag is the size estimate used to derive the leaf threshold when the source extent
// is unknown.
const sizeSwag = 1000

// taskControl is the handle a terminal's leaf hook sees, exposing the short circuit
// protocol of the task tree.
type taskControl interface {
	// IsLeftSpine reports whether the task lies on the leftmost root to leaf path, i.e.
	// nothing in the tree precedes it in encounter order.
	IsLeftSpine() bool

	// ShortCircuitRaw publishes a result into the shared write once slot, aborting tasks
	// that have not started computing yet.
	ShortCircuitRaw(r any)

	// CancelLaterSiblings cancels every task later in encounter order.
	CancelLaterSiblings()
}

// sharedState is the state one parallel invocation shares across its whole task tree.
type sharedState[R any] struct {
	pl      pool.Pool
	drv     *driver
	root    *task[R]
	latch   chan struct{}
	done    sync.Once
	failure atomic.Pointer[panicValue]
	slot    atomic.Pointer[R] // short circuit result, write once.
}

// panicValue carries a recovered panic across goroutines.
type panicValue struct {
	value any
}

// release opens the root latch. Idempotent.
func (s *sharedState[R]) release() {
	s.done.Do(func() { close(s.latch) })
}

// fail records the first user callback failure, cancels the whole tree and releases the
// invoker. Later failures are suppressed.
func (s *sharedState[R]) fail(v any) {
	s.failure.CompareAndSwap(nil, &panicValue{value: v})
	s.root.canceled.Store(true)
	s.release()
}

// taskOps is the per terminal strategy a task tree runs: the sequential leaf computation,
// the sibling combine, and the empty result canceled tasks install.
type taskOps[R any] struct {
	leaf         func(t *task[R], sp any) R
	combine      func(a, b R) R
	empty        func() R
	shortCircuit bool
}

// task is a node of the recursive binary decomposition of one parallel evaluation.
// Compute splits the spliterator until the remaining estimate drops under the target leaf
// size, forking the right half and descending into the left; leaves run the terminal's
// sequential computation and completion propagates bottom up through pending counts.
type task[R any] struct {
	ops         *taskOps[R]
	shared      *sharedState[R]
	sp          any
	targetSize  uint64
	parent      *task[R]
	left, right *task[R]
	pending     atomic.Int32
	canceled    atomic.Bool
	result      R
}

// newRootTask sizes the leaf threshold from the source estimate and the pool parallelism
// and wires up the shared invocation state.
func newRootTask[R any](h *helper, ops *taskOps[R]) *task[R] {
	est := h.drv.estimate(h.sp)
	if est == spliterator.MaxSize {
		est = sizeSwag
	}
	target := 1 + ((est+7)/8)/uint64(h.pl.Parallelism())
	shared := &sharedState[R]{pl: h.pl, drv: h.drv, latch: make(chan struct{})}
	root := &task[R]{ops: ops, shared: shared, sp: h.sp, targetSize: target}
	shared.root = root
	return root
}

// makeChild creates a sub task over the given spliterator.
func (t *task[R]) makeChild(sp any) *task[R] {
	return &task[R]{ops: t.ops, shared: t.shared, sp: sp, targetSize: t.targetSize, parent: t}
}

// Compute runs the task, splitting until the work is leaf sized.
func (t *task[R]) Compute() {
	defer t.recoverPanic()
	cur, sp := t, t.sp
	for {
		if cur.aborted() {
			cur.result = cur.ops.empty()
			cur.tryComplete()
			return
		}
		size := cur.shared.drv.estimate(sp)
		if size <= cur.targetSize {
			break
		}
		prefix, ok := cur.shared.drv.split(sp)
		if !ok {
			break
		}
		left := cur.makeChild(prefix)
		right := cur.makeChild(sp)
		cur.left, cur.right = left, right
		cur.pending.Store(1)
		cur.shared.pl.Submit(right)
		cur, sp = left, prefix
	}
	cur.sp = sp
	cur.result = cur.ops.leaf(cur, sp)
	cur.tryComplete()
}

// Wait blocks until the tree rooted at the task has completed.
func (t *task[R]) Wait() {
	<-t.shared.latch
}

// recoverPanic funnels a panic out of a worker into the shared failure slot.
func (t *task[R]) recoverPanic() {
	if r := recover(); r != nil {
		t.shared.fail(r)
	}
}

// aborted reports whether the task should install the empty result without computing:
// the invocation failed, a short circuit result has been published, or the task or one of
// its ancestors was canceled.
func (t *task[R]) aborted() bool {
	if t.shared.failure.Load() != nil {
		return true
	}
	if t.ops.shortCircuit && t.shared.slot.Load() != nil {
		return true
	}
	for cur := t; cur != nil; cur = cur.parent {
		if cur.canceled.Load() {
			return true
		}
	}
	return false
}

// tryComplete decrements completion counts up the tree, combining children in left to
// right order at each internal node whose children have both finished.
func (t *task[R]) tryComplete() {
	cur := t
	for {
		p := cur.pending.Load()
		if p == 0 {
			cur.onCompletion()
			if cur.parent == nil {
				cur.shared.release()
				return
			}
			cur = cur.parent
		} else if cur.pending.CompareAndSwap(p, p-1) {
			return
		}
	}
}

// onCompletion merges the children's results into the task's own.
func (t *task[R]) onCompletion() {
	if t.left == nil {
		return
	}
	t.result = t.ops.combine(t.left.result, t.right.result)
	t.left, t.right = nil, nil
}

// IsLeftSpine reports whether the task is on the leftmost root to leaf path.
func (t *task[R]) IsLeftSpine() bool {
	for cur := t; cur.parent != nil; cur = cur.parent {
		if cur.parent.left != cur {
			return false
		}
	}
	return true
}

// ShortCircuitRaw publishes a result into the shared write once slot.
func (t *task[R]) ShortCircuitRaw(r any) {
	v := r.(R)
	t.shared.slot.CompareAndSwap(nil, &v)
}

// CancelLaterSiblings cancels the right sibling at every ancestor level where the task is
// the left child, the encounter order suffix of the tree.
func (t *task[R]) CancelLaterSiblings() {
	for cur, parent := t, t.parent; parent != nil; cur, parent = parent, parent.parent {
		if parent.left == cur && parent.right != nil {
			parent.right.canceled.Store(true)
		}
	}
}

// checkFailure rethrows the first recorded worker failure on the invoking goroutine.
func (t *task[R]) checkFailure() {
	if pv := t.shared.failure.Load(); pv != nil {
		if err, ok := pv.value.(*Error); ok {
			panic(err)
		}
		panic(errUserCallback(pv.value))
	}
}

// evaluateParallel decomposes the helper's source into a task tree on the pool and merges
// the leaf results per the terminal's strategy.
func evaluateParallel[T, R any](h *helper, t terminal[T, R]) R {
	combine := t.combine
	if combine == nil {
		combine = func(a, b R) R {
			var zero R
			return zero
		}
	}
	empty := t.empty
	if empty == nil {
		empty = func() R {
			var zero R
			return zero
		}
	}
	ops := &taskOps[R]{combine: combine, empty: empty, shortCircuit: h.word.Knows(flags.ShortCircuit)}
	ops.leaf = func(c *task[R], sp any) R {
		snk, extract := t.makeSink(h.word)
		wrapped := h.wrap(snk)
		canceled := false
		if ops.shortCircuit {
			canceled = h.drv.copyCancel(wrapped, sp)
		} else {
			h.drv.copyInto(wrapped, sp)
		}
		r := extract()
		if t.onLeaf != nil {
			t.onLeaf(c, canceled, r)
		}
		return r
	}
	root := newRootTask(h, ops)
	h.pl.Invoke(root)
	root.checkFailure()
	result := root.result
	if t.resolve != nil {
		result = t.resolve(root.shared.slot.Load(), result)
	}
	return result
}
