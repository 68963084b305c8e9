// package node provides the immutable output containers that parallel stream evaluation
// collects into. A node is either a flat run of elements backed by a slice or a conc node,
// an ordered sequence of child nodes whose depth first left to right traversal reproduces
// encounter order. Conc nodes let parallel leaves produce output without sharing a lock;
// the partial results are concatenated in sibling order instead.
package node

import (
	"errors"

	"github.com/phantom820/streams/v2/spliterator"
)

// MaxSliceSize is the largest element count a node may be flattened into.
const MaxSliceSize = 1<<31 - 8

// Node an immutable container of elements.
type Node[T any] interface {
	Count() uint64                               // Returns the number of elements held by the node.
	ForEach(action func(x T))                    // Invokes the action on each element in encounter order.
	Spliterator() spliterator.Spliterator[T]     // Returns a spliterator over the elements of the node.
	CopyInto(dst []T, offset int) int            // Copies the elements into dst starting at offset, returns the next offset.
	ToSlice() []T                                // Returns the elements flattened into a slice.
}

// emptyNode a node with no elements.
type emptyNode[T any] struct{}

// Empty returns a node with no elements.
func Empty[T any]() Node[T] {
	return emptyNode[T]{}
}

func (emptyNode[T]) Count() uint64 {
	return 0
}

func (emptyNode[T]) ForEach(action func(x T)) {}

func (emptyNode[T]) Spliterator() spliterator.Spliterator[T] {
	return spliterator.Empty[T]()
}

func (emptyNode[T]) CopyInto(dst []T, offset int) int {
	return offset
}

func (emptyNode[T]) ToSlice() []T {
	return []T{}
}

// leafNode a flat node viewing a slice.
type leafNode[T any] struct {
	data []T
}

// Of returns a node viewing the given slice. The slice must not be mutated afterwards.
func Of[T any](data []T) Node[T] {
	return leafNode[T]{data: data}
}

func (n leafNode[T]) Count() uint64 {
	return uint64(len(n.data))
}

func (n leafNode[T]) ForEach(action func(x T)) {
	for _, x := range n.data {
		action(x)
	}
}

func (n leafNode[T]) Spliterator() spliterator.Spliterator[T] {
	return spliterator.OfSlice(n.data)
}

func (n leafNode[T]) CopyInto(dst []T, offset int) int {
	return offset + copy(dst[offset:], n.data)
}

func (n leafNode[T]) ToSlice() []T {
	return n.data
}

// concNode an ordered concatenation of child nodes.
type concNode[T any] struct {
	children []Node[T]
	count    uint64
}

// Concat returns a node holding the elements of left followed by the elements of right.
// Empty operands are elided.
func Concat[T any](left, right Node[T]) Node[T] {
	if left.Count() == 0 {
		return right
	} else if right.Count() == 0 {
		return left
	}
	return concNode[T]{children: []Node[T]{left, right}, count: left.Count() + right.Count()}
}

// ConcatAll concatenates the given nodes in order.
func ConcatAll[T any](nodes ...Node[T]) Node[T] {
	children := make([]Node[T], 0, len(nodes))
	count := uint64(0)
	for _, n := range nodes {
		if n.Count() == 0 {
			continue
		}
		children = append(children, n)
		count += n.Count()
	}
	switch len(children) {
	case 0:
		return Empty[T]()
	case 1:
		return children[0]
	}
	return concNode[T]{children: children, count: count}
}

func (n concNode[T]) Count() uint64 {
	return n.count
}

func (n concNode[T]) ForEach(action func(x T)) {
	for _, child := range n.children {
		child.ForEach(action)
	}
}

func (n concNode[T]) Spliterator() spliterator.Spliterator[T] {
	return newNodeSpliterator[T](n.children, n.count)
}

func (n concNode[T]) CopyInto(dst []T, offset int) int {
	for _, child := range n.children {
		offset = child.CopyInto(dst, offset)
	}
	return offset
}

func (n concNode[T]) ToSlice() []T {
	if n.count > MaxSliceSize {
		panic(errors.New("ErrSizeExceedsMaxSlice"))
	}
	dst := make([]T, n.count)
	n.CopyInto(dst, 0)
	return dst
}

// Flatten returns a node backed by a single contiguous slice holding the elements of the
// given node.
func Flatten[T any](n Node[T]) Node[T] {
	if _, ok := n.(concNode[T]); !ok {
		return n
	}
	return Of(n.ToSlice())
}

// Truncate returns a node holding the elements of n in positions [from, to).
func Truncate[T any](n Node[T], from, to uint64) Node[T] {
	if to > n.Count() {
		to = n.Count()
	}
	if from >= to {
		return Empty[T]()
	}
	if from == 0 && to == n.Count() {
		return n
	}
	size := to - from
	builder := Fixed[T](size)
	builder.Begin(size)
	sp := n.Spliterator()
	discard := func(x T) {}
	for i := uint64(0); i < from; i++ {
		sp.TryAdvance(discard)
	}
	for i := uint64(0); i < size; i++ {
		sp.TryAdvance(builder.Accept)
	}
	builder.End()
	return builder.Build()
}
