package spliterator

import "errors"

// batch sizing for the iterator adapter. Each split reads the next batch of elements out
// of the iterator into an array backed spliterator, doubling the batch size up to the cap.
const (
	batchUnit = 1 << 0
	batchMax  = 1 << 10
)

// Iterator is a sequential producer of elements. Next panics when no element remains.
type Iterator[T any] interface {
	Next() T       // Returns the next element from the iterator.
	HasNext() bool // Checks if the iterator has a next element to produce.
}

// funcIterator adapts a pair of closures into an Iterator.
type funcIterator[T any] struct {
	next    func() T
	hasNext func() bool
}

// NewIterator creates an iterator from next and hasNext callbacks.
func NewIterator[T any](next func() T, hasNext func() bool) Iterator[T] {
	return &funcIterator[T]{next: next, hasNext: hasNext}
}

func (it *funcIterator[T]) Next() T {
	if !it.hasNext() {
		panic(errors.New("ErrNoNextElement"))
	}
	return it.next()
}

func (it *funcIterator[T]) HasNext() bool {
	return it.hasNext()
}

// iteratorSpliterator bridges a sequential iterator into a spliterator. Splitting reads a
// geometrically growing batch of elements out of the iterator and returns an array backed
// spliterator over them; the receiver keeps the iterator for the tail.
type iteratorSpliterator[T any] struct {
	it    Iterator[T]
	size  uint64
	sized bool
	batch int
	chars uint
}

// FromIterator bridges the iterator into a spliterator advertising the given extra
// characteristics. Pass a negative size when the element count is unknown; a non negative
// size makes the spliterator sized.
func FromIterator[T any](it Iterator[T], size int64, chars uint) Spliterator[T] {
	s := &iteratorSpliterator[T]{it: it, chars: chars | Ordered}
	if size >= 0 {
		s.size = uint64(size)
		s.sized = true
		s.chars |= Sized
	} else {
		s.size = MaxSize
	}
	return s
}

func (s *iteratorSpliterator[T]) TryAdvance(action func(x T)) bool {
	if !s.it.HasNext() {
		return false
	}
	x := s.it.Next()
	if s.sized && s.size > 0 {
		s.size--
	}
	action(x)
	return true
}

func (s *iteratorSpliterator[T]) TrySplit() (Spliterator[T], bool) {
	if !s.it.HasNext() {
		return nil, false
	}
	n := s.batch * 2
	if n == 0 {
		n = batchUnit
	}
	if n > batchMax {
		n = batchMax
	}
	if s.sized && uint64(n) > s.size {
		n = int(s.size)
	}
	buf := make([]T, 0, n)
	for len(buf) < n && s.it.HasNext() {
		buf = append(buf, s.it.Next())
	}
	if len(buf) == 0 {
		return nil, false
	}
	s.batch = n
	if s.sized {
		s.size -= uint64(len(buf))
	}
	return OfSlice(buf), true
}

func (s *iteratorSpliterator[T]) EstimateSize() uint64 {
	return s.size
}

func (s *iteratorSpliterator[T]) Characteristics() uint {
	// A sub split is array backed and uniform, the residual spliterator itself is not.
	return s.chars &^ Uniform
}

// spliteratorIterator drives a spliterator through the sequential iterator protocol using
// a one element look ahead.
type spliteratorIterator[T any] struct {
	sp      Spliterator[T]
	next    T
	primed  bool
	drained bool
}

// ToIterator adapts the spliterator into a sequential iterator.
func ToIterator[T any](sp Spliterator[T]) Iterator[T] {
	return &spliteratorIterator[T]{sp: sp}
}

// prime refills the look ahead slot from the spliterator.
func (it *spliteratorIterator[T]) prime() {
	if it.primed || it.drained {
		return
	}
	if !it.sp.TryAdvance(func(x T) { it.next = x }) {
		it.drained = true
		return
	}
	it.primed = true
}

func (it *spliteratorIterator[T]) HasNext() bool {
	it.prime()
	return it.primed
}

func (it *spliteratorIterator[T]) Next() T {
	it.prime()
	if !it.primed {
		panic(errors.New("ErrNoNextElement"))
	}
	it.primed = false
	return it.next
}
