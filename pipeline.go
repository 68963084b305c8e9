package streams

import (
	"github.com/phantom820/streams/v2/flags"
	"github.com/phantom820/streams/v2/node"
	"github.com/phantom820/streams/v2/pool"
	"github.com/phantom820/streams/v2/spliterator"
)

// linkState the life cycle of a pipeline stage. A stage accepts exactly one downstream
// operation; executing a terminal operation consumes it irreversibly.
type linkState int

const (
	unlinked linkState = iota
	linkedStage
	consumedStage
)

// opInfo identifies an intermediate operation on a stage.
type opInfo struct {
	name     string
	stateful bool
}

// op names.
const (
	filterOpName   = "FILTER"
	mapOpName      = "MAP"
	flatMapOpName  = "FLAT_MAP"
	peekOpName     = "PEEK"
	sliceOpName    = "SLICE"
	sortedOpName   = "SORTED"
	distinctOpName = "DISTINCT"
)

// rootState is shared by every stage of one pipeline: the source factory, its driver, and
// the execution mode. The source spliterator is materialized at most once.
type rootState struct {
	supplier func() any
	drv      *driver
	pl       pool.Pool
	parallel bool
	sourced  bool
}

// source materializes the source spliterator. A second materialization means two terminal
// operations raced for the same source and is rejected.
func (r *rootState) source() any {
	if r.sourced {
		panic(errStreamConsumed())
	}
	r.sourced = true
	return r.supplier()
}

// stageInfo the erased core of a pipeline stage. Generic streams embed it so that
// downstream stages and the evaluation helper can traverse the chain without knowing each
// stage's element type.
type stageInfo struct {
	parent *stageInfo
	root   *rootState
	depth  int
	state  linkState
	op     opInfo

	opWord flags.Word // this op's flag word.
	upWord flags.Word // combined flags up to but excluding this op.
	word   flags.Word // combined flags including this op.

	// wrapFn wraps this stage's op sink around the downstream erased sink.
	wrapFn func(down control) control

	// boundaryFn is set on stateful ops. Under parallel execution it re-roots the
	// pipeline, normally by materializing the upstream segment into a node, applying the
	// op, and installing the node's spliterator as the new source. Returns the new
	// driver, spliterator and stream flags, plus the pipeline segment still left to
	// apply downstream (nil when the boundary consumed it).
	boundaryFn func(sub *helper) (*driver, any, flags.Word, []*stageInfo)
}

// prepareLink transitions the stage to linked, rejecting stages that have already been
// operated on.
func (s *stageInfo) prepareLink() {
	switch s.state {
	case linkedStage:
		panic(errStreamLinked())
	case consumedStage:
		panic(errStreamConsumed())
	}
	s.state = linkedStage
}

// prepareConsume transitions the stage to consumed ahead of running a terminal operation.
func (s *stageInfo) prepareConsume() {
	switch s.state {
	case linkedStage:
		panic(errStreamLinked())
	case consumedStage:
		panic(errStreamConsumed())
	}
	s.state = consumedStage
}

// driver interprets erased spliterators and sinks at the element type of the pipeline
// segment it was created for. All spliterators flowing through the evaluation helper and
// the task framework are erased; the driver re-types them at the traversal sites.
type driver struct {
	split      func(sp any) (any, bool)
	estimate   func(sp any) uint64
	exact      func(sp any) (uint64, bool)
	chars      func(sp any) uint
	advance    func(sp any, dst control) bool
	copyInto   func(dst control, sp any)
	copyCancel func(dst control, sp any) bool
	slice      func(sp any, from, to uint64) any
}

// newDriver returns a driver for pipeline segments whose source elements have type S.
func newDriver[S any]() *driver {
	return &driver{
		split: func(sp any) (any, bool) {
			prefix, ok := sp.(spliterator.Spliterator[S]).TrySplit()
			return prefix, ok
		},
		estimate: func(sp any) uint64 {
			return sp.(spliterator.Spliterator[S]).EstimateSize()
		},
		exact: func(sp any) (uint64, bool) {
			return spliterator.ExactSizeIfKnown(sp.(spliterator.Spliterator[S]))
		},
		chars: func(sp any) uint {
			return sp.(spliterator.Spliterator[S]).Characteristics()
		},
		advance: func(sp any, dst control) bool {
			return sp.(spliterator.Spliterator[S]).TryAdvance(asSink[S](dst).Accept)
		},
		copyInto: func(dst control, sp any) {
			copyInto(asSink[S](dst), sp.(spliterator.Spliterator[S]))
		},
		copyCancel: func(dst control, sp any) bool {
			return copyIntoWithCancel(asSink[S](dst), sp.(spliterator.Spliterator[S]))
		},
		slice: func(sp any, from, to uint64) any {
			return newSlicedSpliterator(sp.(spliterator.Spliterator[S]), from, to)
		},
	}
}

// helper is the per evaluation context. It holds the pipeline segment whose sink wrappers
// apply to each traversal, the driver and spliterator the segment pulls from, and the
// combined stream flags at the terminal's input.
type helper struct {
	word     flags.Word
	segment  []*stageInfo
	drv      *driver
	sp       any
	pl       pool.Pool
	parallel bool
}

// wrap composes the segment's sink wrappers around the terminal sink in pipeline order,
// so the wrapper closest to the source intercepts elements first.
func (h *helper) wrap(down control) control {
	for i := len(h.segment) - 1; i >= 0; i-- {
		down = h.segment[i].wrapFn(down)
	}
	return down
}

// exactOutputSize returns the exact number of elements the segment will emit, known only
// when the combined flags still carry SIZED.
func (h *helper) exactOutputSize() (uint64, bool) {
	if !h.word.Knows(flags.Sized) {
		return 0, false
	}
	return h.drv.exact(h.sp)
}

// newHelper builds the evaluation context for a terminal invoked on the given stage. In
// parallel mode every stateful stage up the chain materializes a boundary: the segment
// before it is collected into a node and the pipeline re-roots at the node's spliterator.
func newHelper(s *stageInfo, termWord flags.Word) *helper {
	chain := make([]*stageInfo, s.depth+1)
	for st := s; st != nil; st = st.parent {
		chain[st.depth] = st
	}
	root := chain[0]
	h := &helper{drv: root.root.drv, sp: root.root.source(), pl: root.root.pl, parallel: root.root.parallel}
	if !h.parallel {
		h.segment = chain[1:]
		h.word = flags.Combine(termWord, s.word)
		return h
	}
	word := root.word
	segment := make([]*stageInfo, 0, len(chain)-1)
	for i := 1; i < len(chain); i++ {
		st := chain[i]
		if st.boundaryFn == nil {
			segment = append(segment, st)
			word = flags.Combine(st.opWord, word)
			continue
		}
		sub := &helper{word: word, segment: segment, drv: h.drv, sp: h.sp, pl: h.pl, parallel: true}
		h.drv, h.sp, word, segment = st.boundaryFn(sub)
	}
	h.segment = segment
	h.word = flags.Combine(termWord, word)
	return h
}

// collectNode evaluates the helper's segment into a node of T elements, the auxiliary
// terminal behind the parallel slice and sorted boundaries.
func collectNode[T any](h *helper, flatten bool) node.Node[T] {
	t := collectNodeTerminal[T]()
	var collected node.Node[T]
	if h.parallel {
		collected = evaluateParallel(h, t)
	} else {
		collected = evaluateSequential(h, t)
	}
	if flatten {
		return node.Flatten(collected)
	}
	return collected
}

// collectNodeTerminal builds the node collecting terminal op. Each leaf accumulates into
// its own spined builder and partial nodes concatenate in encounter order.
func collectNodeTerminal[T any]() terminal[T, node.Node[T]] {
	return terminal[T, node.Node[T]]{
		name: "COLLECT_OUTPUT",
		makeSink: func(word flags.Word) (Sink[T], func() node.Node[T]) {
			builder := node.Spined[T]()
			return builder, builder.Build
		},
		combine: node.Concat[T],
		empty:   node.Empty[T],
	}
}
