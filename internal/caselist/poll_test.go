package caselist

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoller_Ticks(t *testing.T) {
	var count atomic.Int32
	p := NewPoller(10*time.Millisecond, func(context.Context) { count.Add(1) })
	p.Start()
	defer p.Stop()

	deadline := time.After(time.Second)
	for count.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for poll ticks")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPoller_SuspendResume(t *testing.T) {
	var count atomic.Int32
	p := NewPoller(10*time.Millisecond, func(context.Context) { count.Add(1) })
	p.Suspend()
	p.Start()
	defer p.Stop()

	time.Sleep(60 * time.Millisecond)
	if n := count.Load(); n != 0 {
		t.Errorf("refreshed %d times while suspended", n)
	}

	p.Resume()
	deadline := time.After(time.Second)
	for count.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no tick after resume")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(0, func(context.Context) {})
	if p.interval != DefaultPollInterval {
		t.Errorf("interval = %v, want %v", p.interval, DefaultPollInterval)
	}
}
