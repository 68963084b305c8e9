package node

import (
	"errors"
	"fmt"
)

// Builder accumulates elements through the sink protocol and yields a node. A builder is
// used for one begin/accept/end cycle only.
type Builder[T any] interface {
	Begin(size uint64)
	Accept(x T)
	End()
	CancellationRequested() bool
	Build() Node[T] // Returns the node holding the accepted elements.
}

// Fixed returns a builder for exactly size elements backed by a single pre sized slice.
func Fixed[T any](size uint64) Builder[T] {
	if size > MaxSliceSize {
		panic(errors.New("ErrSizeExceedsMaxSlice"))
	}
	return &fixedBuilder[T]{data: make([]T, size)}
}

// fixedBuilder appends at a running offset into a pre sized slice.
type fixedBuilder[T any] struct {
	data []T
	cur  int
}

func (b *fixedBuilder[T]) Begin(size uint64) {
	if size != uint64(len(b.data)) {
		panic(fmt.Errorf("begin size %v does not match builder capacity %v", size, len(b.data)))
	}
	b.cur = 0
}

func (b *fixedBuilder[T]) Accept(x T) {
	if b.cur >= len(b.data) {
		panic(fmt.Errorf("accepted more than %v elements", len(b.data)))
	}
	b.data[b.cur] = x
	b.cur++
}

func (b *fixedBuilder[T]) End() {
	if b.cur < len(b.data) {
		panic(fmt.Errorf("ended after %v of %v elements", b.cur, len(b.data)))
	}
}

func (b *fixedBuilder[T]) CancellationRequested() bool {
	return false
}

func (b *fixedBuilder[T]) Build() Node[T] {
	return Of(b.data)
}

// chunk sizing for the spined builder. The first chunk holds 1<<minChunkPower elements
// and subsequent chunks double up to 1<<maxChunkPower.
const (
	minChunkPower = 4
	maxChunkPower = 24
)

// Spined returns a variable capacity builder whose storage grows geometrically chunk by
// chunk, so that accepted elements are never re-copied.
func Spined[T any]() Builder[T] {
	return &spinedBuilder[T]{}
}

// spinedBuilder holds a spine of chunks plus the prefix sums of their sizes.
type spinedBuilder[T any] struct {
	spine       [][]T
	priorCounts []uint64
	count       uint64
}

// ensure makes room for at least capacity elements.
func (b *spinedBuilder[T]) ensure(capacity uint64) {
	for b.capacity() < capacity {
		b.grow()
	}
}

// capacity returns the total capacity of all chunks.
func (b *spinedBuilder[T]) capacity() uint64 {
	if len(b.spine) == 0 {
		return 0
	}
	last := b.spine[len(b.spine)-1]
	return b.priorCounts[len(b.spine)-1] + uint64(cap(last))
}

// grow appends a new chunk twice the size of the last one.
func (b *spinedBuilder[T]) grow() {
	power := minChunkPower + len(b.spine)
	if power > maxChunkPower {
		power = maxChunkPower
	}
	prior := uint64(0)
	if len(b.spine) > 0 {
		prior = b.priorCounts[len(b.spine)-1] + uint64(cap(b.spine[len(b.spine)-1]))
	}
	b.spine = append(b.spine, make([]T, 0, 1<<power))
	b.priorCounts = append(b.priorCounts, prior)
}

func (b *spinedBuilder[T]) Begin(size uint64) {
	if size != 0 && size < MaxSliceSize {
		b.ensure(size)
	}
}

func (b *spinedBuilder[T]) Accept(x T) {
	if len(b.spine) == 0 || len(b.spine[len(b.spine)-1]) == cap(b.spine[len(b.spine)-1]) {
		b.grow()
	}
	last := len(b.spine) - 1
	b.spine[last] = append(b.spine[last], x)
	b.count++
}

func (b *spinedBuilder[T]) End() {}

func (b *spinedBuilder[T]) CancellationRequested() bool {
	return false
}

func (b *spinedBuilder[T]) Build() Node[T] {
	chunks := make([]Node[T], 0, len(b.spine))
	for _, chunk := range b.spine {
		if len(chunk) == 0 {
			continue
		}
		chunks = append(chunks, Of(chunk))
	}
	return ConcatAll(chunks...)
}
