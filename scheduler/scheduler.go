// Package scheduler drives periodic, single-flight background work: the
// mining loop and the peer-refresh loop both run on a Task, which enforces
// that at most one invocation of its work function is in flight at a time
// (spec.md I6, §4.7).
package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/ikuhiroo/pyblockchain/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleScheduler)

// Task runs work on a fixed interval, dropping a tick instead of queuing it
// when the previous invocation is still running (spec.md's "non-blocking
// permit acquisition").
type Task struct {
	name     string
	interval time.Duration
	work     func()

	busy    int32
	started int32
	stop    chan struct{}
	done    chan struct{}
}

// New returns a Task named name that calls work every interval once
// started. name is used only for logging.
func New(name string, interval time.Duration, work func()) *Task {
	return &Task{
		name:     name,
		interval: interval,
		work:     work,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the periodic loop in a new goroutine. Calling Start more
// than once has undefined behavior; callers own the single-Start
// invariant.
func (t *Task) Start() {
	atomic.StoreInt32(&t.started, 1)
	go t.loop()
}

func (t *Task) loop() {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.tick()
			// Discard a tick the ticker buffered while work was running.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (t *Task) tick() {
	if !atomic.CompareAndSwapInt32(&t.busy, 0, 1) {
		logger.Debug("tick dropped: previous run still in flight", "task", t.name)
		return
	}
	defer atomic.StoreInt32(&t.busy, 0)
	t.work()
}

// RunNow runs work immediately, subject to the same single-flight permit as
// a timer tick, reporting whether it actually ran.
func (t *Task) RunNow() bool {
	if !atomic.CompareAndSwapInt32(&t.busy, 0, 1) {
		return false
	}
	defer atomic.StoreInt32(&t.busy, 0)
	t.work()
	return true
}

// Stop signals the loop to exit and blocks until it has. Stopping a Task
// whose Start was never called is a no-op — there is no loop goroutine to
// close t.done, so waiting on it would hang forever. Safe to call multiple
// times is not guaranteed; callers own the single-Stop invariant.
func (t *Task) Stop() {
	if atomic.LoadInt32(&t.started) == 0 {
		return
	}
	close(t.stop)
	<-t.done
}
