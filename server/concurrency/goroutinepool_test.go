package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewGoRoutinePool(t *testing.T) {
	if p := NewGoRoutinePool(0); p != nil {
		t.Error("pool with no workers must be nil")
	}
	if p := NewGoRoutinePool(3); p == nil || p.Size() != 3 {
		t.Error("unexpected pool size")
	}
}

func TestScheduleRunsAll(t *testing.T) {
	p := NewGoRoutinePool(4)

	var wg sync.WaitGroup
	var count int32
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Schedule(func() {
			atomic.AddInt32(&count, 1)
			wg.Done()
		})
	}
	wg.Wait()
	p.Stop()

	if count != 100 {
		t.Errorf("expected 100 tasks to run, got %d", count)
	}
}

func TestScheduleBounded(t *testing.T) {
	p := NewGoRoutinePool(2)

	var wg sync.WaitGroup
	var running, peak int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		p.Schedule(func() {
			defer wg.Done()
			cur := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		})
	}
	wg.Wait()
	p.Stop()

	if peak > 2 {
		t.Errorf("more than 2 tasks ran concurrently: %d", peak)
	}
}

func TestTryScheduleFull(t *testing.T) {
	p := NewGoRoutinePool(1)
	defer p.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	if !p.TrySchedule(func() {
		close(started)
		<-release
	}) {
		t.Fatal("first task must start a worker")
	}
	<-started

	// One queue slot.
	if !p.TrySchedule(func() {}) {
		t.Error("second task must be queued")
	}
	if p.TrySchedule(func() {}) {
		t.Error("third task must be rejected: worker busy, queue full")
	}
	close(release)
}

func TestScheduleAfterStop(t *testing.T) {
	p := NewGoRoutinePool(2)

	var wg sync.WaitGroup
	wg.Add(1)
	p.Schedule(wg.Done)
	wg.Wait()

	p.Stop()
	p.Stop()

	var ran int32
	if p.Schedule(func() { atomic.AddInt32(&ran, 1) }) {
		t.Error("Schedule must fail on a stopped pool")
	}
	if p.TrySchedule(func() { atomic.AddInt32(&ran, 1) }) {
		t.Error("TrySchedule must fail on a stopped pool")
	}

	// Workers release their slots on exit.
	deadline := time.Now().Add(time.Second)
	for len(p.sem) > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if n := len(p.sem); n != 0 {
		t.Errorf("%d worker(s) still running after Stop", n)
	}
	if atomic.LoadInt32(&ran) != 0 {
		t.Error("task ran on a stopped pool")
	}
}

func TestStopUnblocksSchedule(t *testing.T) {
	p := NewGoRoutinePool(1)

	release := make(chan struct{})
	defer close(release)
	p.Schedule(func() { <-release })
	p.Schedule(func() {})

	result := make(chan bool)
	go func() {
		result <- p.Schedule(func() {})
	}()

	time.Sleep(10 * time.Millisecond)
	p.Stop()
	select {
	case ok := <-result:
		if ok {
			t.Error("blocked Schedule must fail after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("Schedule still blocked after Stop")
	}
}
