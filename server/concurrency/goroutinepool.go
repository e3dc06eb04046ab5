// Package concurrency provides a bounded pool of goroutines for background work
// such as attachment lockdown.
package concurrency

import "sync"

// Task represents a work task to be run on the specified thread pool.
type Task func()

// GoRoutinePool runs tasks on at most cap(sem) goroutines. Workers are started lazily
// and stay alive until Stop is called.
type GoRoutinePool struct {
	// Work queue.
	work chan Task
	// Counter to control the number of already allocated/running goroutines.
	sem chan struct{}
	// Closed by Stop.
	done     chan struct{}
	stopOnce sync.Once
}

// NewGoRoutinePool allocates a new thread pool with `numWorkers` goroutines and a queue
// of the same length. Returns nil if numWorkers is not positive.
func NewGoRoutinePool(numWorkers int) *GoRoutinePool {
	if numWorkers <= 0 {
		return nil
	}
	return &GoRoutinePool{
		work: make(chan Task, numWorkers),
		sem:  make(chan struct{}, numWorkers),
		done: make(chan struct{}),
	}
}

// Size returns the maximum number of concurrently running tasks.
func (p *GoRoutinePool) Size() int {
	return cap(p.sem)
}

// Schedule enqueues a closure to run on the pool's goroutines. Blocks while all
// workers are busy and the queue is full. Returns false if the pool is stopped.
func (p *GoRoutinePool) Schedule(task Task) bool {
	if p.stopped() {
		return false
	}
	if p.startWorker(task) {
		return true
	}
	// All workers are running, one of them will pick up the task.
	select {
	case p.work <- task:
		return true
	case <-p.done:
		return false
	}
}

// TrySchedule is like Schedule but returns false instead of blocking when all
// workers are busy and the queue is full.
func (p *GoRoutinePool) TrySchedule(task Task) bool {
	if p.stopped() {
		return false
	}
	if p.startWorker(task) {
		return true
	}
	select {
	case p.work <- task:
		return true
	default:
		return false
	}
}

// Stop signals all goroutines to exit. Tasks already picked up are allowed to finish,
// queued tasks are discarded. Safe to call more than once.
func (p *GoRoutinePool) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
}

func (p *GoRoutinePool) stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// startWorker runs the task on a new goroutine if the pool is not full yet.
func (p *GoRoutinePool) startWorker(task Task) bool {
	select {
	case p.sem <- struct{}{}:
		go p.worker(task)
		return true
	default:
		return false
	}
}

// Thread pool worker goroutine.
func (p *GoRoutinePool) worker(task Task) {
	defer func() { <-p.sem }()
	for {
		task()
		select {
		case <-p.done:
			return
		default:
		}
		select {
		case task = <-p.work:
		case <-p.done:
			return
		}
	}
}
