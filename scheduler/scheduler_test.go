package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunNowExecutesWorkSynchronously(t *testing.T) {
	var calls int32
	task := New("test", time.Hour, func() { atomic.AddInt32(&calls, 1) })

	ran := task.RunNow()

	assert.True(t, ran)
	assert.Equal(t, int32(1), calls)
}

func TestRunNowDropsWhileBusy(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	release := make(chan struct{})

	task := New("test", time.Hour, func() {
		wg.Done()
		<-release
	})

	go task.RunNow()
	wg.Wait() // first call is now inside work, holding the permit

	second := task.RunNow()
	assert.False(t, second, "a second invocation must be dropped while the first is in flight")

	close(release)
}

func TestStartRunsPeriodically(t *testing.T) {
	var calls int32
	task := New("test", 10*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	task.Start()
	time.Sleep(55 * time.Millisecond)
	task.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestStopOnUnstartedTaskReturnsImmediately(t *testing.T) {
	task := New("test", time.Hour, func() {})

	done := make(chan struct{})
	go func() {
		task.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on a Task that was never Started must not block")
	}
}
