package streams

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectToSlice(t *testing.T) {

	// Case 1 : Sequential collection preserves encounter order.
	out := Collect(Of(1, 2, 3), ToSliceCollector[int]())
	assert.Equal(t, []int{1, 2, 3}, out)

	// Case 2 : Parallel collection of an ordered stream combines per leaf containers in
	// encounter order.
	out = Collect(Range(0, 1000).Parallel(), ToSliceCollector[int]())
	assert.Equal(t, Range(0, 1000).ToSlice(), out)
}

func TestGroupBy(t *testing.T) {

	// Case 1 : Groups by key in encounter order within each group.
	groups := Collect(Of("apple", "avocado", "banana", "blueberry", "cherry"),
		GroupBy(func(x string) byte { return x[0] }))
	assert.Equal(t, []string{"apple", "avocado"}, groups['a'])
	assert.Equal(t, []string{"banana", "blueberry"}, groups['b'])
	assert.Equal(t, []string{"cherry"}, groups['c'])

	// Case 2 : Parallel grouping produces the same groups.
	groups = Collect(FromSlice(func() []string {
		return []string{"apple", "avocado", "banana", "blueberry", "cherry"}
	}).Parallel(), GroupBy(func(x string) byte { return x[0] }))
	assert.Equal(t, []string{"apple", "avocado"}, groups['a'])
	assert.Equal(t, []string{"banana", "blueberry"}, groups['b'])
	assert.Equal(t, []string{"cherry"}, groups['c'])
}

func TestPartition(t *testing.T) {

	parts := Collect(Range(0, 10), Partition(func(x int) bool { return x%2 == 0 }))
	assert.Equal(t, []int{0, 2, 4, 6, 8}, parts[true])
	assert.Equal(t, []int{1, 3, 5, 7, 9}, parts[false])
}

func TestCollectConcurrent(t *testing.T) {

	// A concurrent collector shares one container across leaves; the accumulator
	// provides its own synchronization.
	var mutex sync.Mutex
	collector := Collector[int, *[]int]{
		Supplier: func() *[]int {
			s := make([]int, 0)
			return &s
		},
		Accumulator: func(r *[]int, x int) *[]int {
			mutex.Lock()
			defer mutex.Unlock()
			*r = append(*r, x)
			return r
		},
		Combiner:   func(a, b *[]int) *[]int { return a },
		Concurrent: true,
	}
	out := Collect(Range(0, 1000).Parallel(), collector)
	assert.ElementsMatch(t, Range(0, 1000).ToSlice(), *out)
}
