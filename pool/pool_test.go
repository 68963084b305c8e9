package pool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelism(t *testing.T) {

	// Case 1 : The configured parallelism is reported.
	assert.Equal(t, 4, New(4).Parallelism())

	// Case 2 : Parallelism is at least one.
	assert.Equal(t, 1, New(0).Parallelism())
	assert.GreaterOrEqual(t, Default.Parallelism(), 1)
}

func TestSubmit(t *testing.T) {

	p := New(2)
	var n atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		p.Submit(Func(func() {
			defer wg.Done()
			n.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(16), n.Load())
}

// waitingTask completes a latch from its Compute and waits on it in Wait.
type waitingTask struct {
	done chan struct{}
	ran  bool
}

func (t *waitingTask) Compute() {
	t.ran = true
	close(t.done)
}

func (t *waitingTask) Wait() {
	<-t.done
}

func TestInvoke(t *testing.T) {

	p := New(2)
	task := &waitingTask{done: make(chan struct{})}
	p.Invoke(task)
	assert.Equal(t, true, task.ran)
}
