package caselist

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often a polling view re-fetches the current
// page to pick up externally made changes.
const DefaultPollInterval = 30 * time.Second

// Poller re-issues the current fetch on a fixed interval. It never touches
// filters or cursors; it only triggers a refresh of the current page in
// place. Polling can be suspended while the view is not visible and
// resumed on return.
type Poller struct {
	interval time.Duration
	refresh  func(ctx context.Context)

	mu        sync.Mutex
	suspended bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoller creates a poller that invokes refresh every interval. A
// non-positive interval falls back to DefaultPollInterval. The refresh
// callback runs on the poller's goroutine; callers are responsible for
// handing the work back to the engine's owning goroutine.
func NewPoller(interval time.Duration, refresh func(ctx context.Context)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, refresh: refresh}
}

// Start begins polling. The first refresh fires after one full interval;
// the initial page load is the view's responsibility.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

// Stop cancels polling and waits for an in-flight refresh to finish.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Suspend pauses polling without stopping the ticker; ticks are skipped
// until Resume is called.
func (p *Poller) Suspend() {
	p.mu.Lock()
	p.suspended = true
	p.mu.Unlock()
}

// Resume re-enables polling after Suspend.
func (p *Poller) Resume() {
	p.mu.Lock()
	p.suspended = false
	p.mu.Unlock()
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			skip := p.suspended
			p.mu.Unlock()
			if skip {
				continue
			}
			p.refresh(ctx)
		}
	}
}
