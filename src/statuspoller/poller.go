// Package statuspoller relays import progress from worker goroutines
// into the UI loop by sampling the shared status buffer.
package statuspoller

import (
	"log"
	"sync"
	"time"
)

// DefaultInterval is how often the buffer is sampled when the caller
// passes no interval.
const DefaultInterval = 500 * time.Millisecond

// Buffer is the slice of backend.StatusBuffer the poller needs.
type Buffer interface {
	Version() uint64
	Snapshot() (string, uint64)
}

// PostFunc delivers one full buffer snapshot into the UI context.
// Typically (*eventloop.Relay[string]).Post.
type PostFunc func(text string) bool

// Poller samples the status buffer once per interval and posts the full
// content whenever the buffer's version moved. The version counter makes
// change detection exact; a same-length rewrite is still observed.
type Poller struct {
	buffer   Buffer
	post     PostFunc
	interval time.Duration

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  bool
	mu       sync.Mutex
}

func New(buffer Buffer, post PostFunc, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		buffer:   buffer,
		post:     post,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling goroutine. No-op when already started.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	log.Printf("statuspoller: started, interval %s", p.interval)
	go p.run()
}

func (p *Poller) run() {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var seen uint64
	for {
		select {
		case <-p.quit:
			log.Printf("statuspoller: stopped")
			return
		case <-ticker.C:
			if p.buffer.Version() == seen {
				continue
			}
			text, version := p.buffer.Snapshot()
			p.post(text)
			seen = version
		}
	}
}

// Stop requests termination. The flag is observed once per cycle, so
// worst-case latency is one interval. Idempotent.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
}

// Done is closed once the polling goroutine has exited; callers that
// need to await actual termination wait on it.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		// Never started: nothing runs, report done immediately.
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return p.done
}
