package node

import "github.com/phantom820/streams/v2/spliterator"

// nodeSpliterator traverses the children of a conc node left to right, drilling into each
// child's own spliterator. Splitting partitions whole children first and only then defers
// to the current child's spliterator.
type nodeSpliterator[T any] struct {
	nodes []Node[T]
	cur   spliterator.Spliterator[T]
}

func newNodeSpliterator[T any](children []Node[T], count uint64) spliterator.Spliterator[T] {
	nodes := make([]Node[T], len(children))
	copy(nodes, children)
	return &nodeSpliterator[T]{nodes: nodes}
}

func (s *nodeSpliterator[T]) TryAdvance(action func(x T)) bool {
	for {
		if s.cur != nil {
			if s.cur.TryAdvance(action) {
				return true
			}
			s.cur = nil
		}
		if len(s.nodes) == 0 {
			return false
		}
		s.cur = s.nodes[0].Spliterator()
		s.nodes = s.nodes[1:]
	}
}

func (s *nodeSpliterator[T]) TrySplit() (spliterator.Spliterator[T], bool) {
	if s.cur == nil && len(s.nodes) >= 2 {
		mid := len(s.nodes) / 2
		prefix := make([]Node[T], mid)
		copy(prefix, s.nodes[:mid])
		s.nodes = s.nodes[mid:]
		return &nodeSpliterator[T]{nodes: prefix}, true
	}
	if s.cur == nil && len(s.nodes) == 1 {
		s.cur = s.nodes[0].Spliterator()
		s.nodes = nil
	}
	if s.cur != nil && len(s.nodes) == 0 {
		return s.cur.TrySplit()
	}
	return nil, false
}

func (s *nodeSpliterator[T]) EstimateSize() uint64 {
	size := uint64(0)
	if s.cur != nil {
		size += s.cur.EstimateSize()
	}
	for _, n := range s.nodes {
		size += n.Count()
	}
	return size
}

func (s *nodeSpliterator[T]) Characteristics() uint {
	return spliterator.Sized | spliterator.Ordered
}
