// package pool provides the worker pool that parallel stream evaluation submits its
// decomposition tasks to. The pool bounds the number of tasks computing at any moment to
// its parallelism level; submitted tasks never block each other, so a bounded admission
// semaphore is sufficient and work never deadlocks.
package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Task a unit of work submitted to a pool.
type Task interface {
	Compute() // Runs the task. Compute may fork further tasks onto the pool before returning.
}

// RootTask the root of a task tree. Wait blocks until the whole tree has completed.
type RootTask interface {
	Task
	Wait()
}

// Pool runs tasks with bounded parallelism.
type Pool interface {
	Parallelism() int  // Returns the parallelism level of the pool.
	Submit(task Task)  // Schedules the task to run on a worker, without blocking the caller.
	Invoke(root RootTask) // Runs the root task on the calling goroutine and blocks until the tree completes.
}

// Func adapts a plain function into a Task.
type Func func()

func (f Func) Compute() {
	f()
}

// New returns a pool that admits at most parallelism tasks at a time.
func New(parallelism int) Pool {
	if parallelism < 1 {
		parallelism = 1
	}
	return &workerPool{parallelism: parallelism, slots: semaphore.NewWeighted(int64(parallelism))}
}

// Default is the pool parallel streams use unless configured otherwise, sized to the
// runtime's processor count.
var Default = New(runtime.GOMAXPROCS(0))

// workerPool admission controlled goroutine pool.
type workerPool struct {
	parallelism int
	slots       *semaphore.Weighted
}

func (p *workerPool) Parallelism() int {
	return p.parallelism
}

func (p *workerPool) Submit(task Task) {
	go func() {
		if err := p.slots.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer p.slots.Release(1)
		task.Compute()
	}()
}

func (p *workerPool) Invoke(root RootTask) {
	root.Compute()
	root.Wait()
}
