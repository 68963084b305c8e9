package node

import (
	"testing"

	"github.com/phantom820/streams/v2/spliterator"
	"github.com/stretchr/testify/assert"
)

// collect gathers the elements of a node through ForEach.
func collect[T any](n Node[T]) []T {
	out := make([]T, 0)
	n.ForEach(func(x T) { out = append(out, x) })
	return out
}

func TestEmptyNode(t *testing.T) {

	n := Empty[int]()
	assert.Equal(t, uint64(0), n.Count())
	assert.Equal(t, []int{}, n.ToSlice())
	assert.Equal(t, []int{}, collect(n))
}

func TestLeafNode(t *testing.T) {

	n := Of([]int{1, 2, 3})
	assert.Equal(t, uint64(3), n.Count())
	assert.Equal(t, []int{1, 2, 3}, n.ToSlice())
	assert.Equal(t, []int{1, 2, 3}, collect(n))
}

func TestConcat(t *testing.T) {

	left := Of([]int{1, 2})
	right := Of([]int{3, 4, 5})

	// Case 1 : Count of a conc is the sum of child counts and traversal concatenates
	// children left to right.
	n := Concat(left, right)
	assert.Equal(t, uint64(5), n.Count())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, collect(n))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, n.ToSlice())

	// Case 2 : Empty operands are elided.
	assert.Equal(t, left, Concat(left, Empty[int]()))
	assert.Equal(t, right, Concat(Empty[int](), right))

	// Case 3 : Deep concatenation preserves encounter order.
	deep := Concat(Concat(Of([]int{1}), Of([]int{2})), Concat(Of([]int{3}), Of([]int{4})))
	assert.Equal(t, []int{1, 2, 3, 4}, deep.ToSlice())
}

func TestNodeSpliterator(t *testing.T) {

	n := ConcatAll(Of([]int{1, 2}), Of([]int{3}), Of([]int{4, 5, 6}))

	// Case 1 : Traversal reproduces encounter order.
	sp := n.Spliterator()
	assert.Equal(t, uint64(6), sp.EstimateSize())
	out := make([]int, 0)
	spliterator.ForEachRemaining(sp, func(x int) { out = append(out, x) })
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, out)

	// Case 2 : Splitting partitions whole children first, prefix before suffix.
	sp = n.Spliterator()
	prefix, ok := sp.TrySplit()
	assert.Equal(t, true, ok)
	out = out[:0]
	spliterator.ForEachRemaining(prefix, func(x int) { out = append(out, x) })
	spliterator.ForEachRemaining(sp, func(x int) { out = append(out, x) })
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, out)
}

func TestFlatten(t *testing.T) {

	n := Concat(Of([]int{1, 2}), Of([]int{3}))
	flat := Flatten(n)
	assert.Equal(t, uint64(3), flat.Count())
	assert.Equal(t, []int{1, 2, 3}, flat.ToSlice())

	// Flattening a leaf is the identity.
	leaf := Of([]int{1})
	assert.Equal(t, leaf, Flatten(leaf))
}

func TestFixedBuilder(t *testing.T) {

	// Case 1 : Builds a node viewing the accepted elements.
	b := Fixed[int](3)
	b.Begin(3)
	b.Accept(1)
	b.Accept(2)
	b.Accept(3)
	b.End()
	assert.Equal(t, []int{1, 2, 3}, b.Build().ToSlice())

	// Case 2 : A mismatched size announcement panics.
	b = Fixed[int](2)
	assert.Panics(t, func() { b.Begin(3) })

	// Case 3 : Ending before the builder is full panics.
	b = Fixed[int](2)
	b.Begin(2)
	b.Accept(1)
	assert.Panics(t, func() { b.End() })
}

func TestSpinedBuilder(t *testing.T) {

	// Case 1 : Grows past the first chunk without re-copying accepted elements.
	b := Spined[int]()
	b.Begin(0)
	n := 100
	want := make([]int, 0, n)
	for i := 0; i < n; i++ {
		b.Accept(i)
		want = append(want, i)
	}
	b.End()
	built := b.Build()
	assert.Equal(t, uint64(n), built.Count())
	assert.Equal(t, want, built.ToSlice())

	// Case 2 : An empty builder yields the empty node.
	b = Spined[int]()
	b.Begin(0)
	b.End()
	assert.Equal(t, uint64(0), b.Build().Count())
}

func TestTruncate(t *testing.T) {

	n := Concat(Of([]int{1, 2, 3}), Of([]int{4, 5, 6}))

	// Case 1 : An interior window.
	assert.Equal(t, []int{2, 3, 4}, Truncate(n, 1, 4).ToSlice())

	// Case 2 : A window past the count clamps.
	assert.Equal(t, []int{5, 6}, Truncate(n, 4, 100).ToSlice())

	// Case 3 : An empty window.
	assert.Equal(t, uint64(0), Truncate(n, 4, 4).Count())
	assert.Equal(t, uint64(0), Truncate(n, 10, 12).Count())

	// Case 4 : The identity window returns the node unchanged.
	assert.Equal(t, n, Truncate(n, 0, 6))
}
