package eventloop

import (
	"log"
	"sync"
)

// Loop is the plugin's UI execution context: one goroutine serially
// running functions posted from anywhere else. It stands in for the CAD
// host's GUI event loop; nothing outside this goroutine may touch the
// frontend.
type Loop struct {
	fns      chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func New() *Loop {
	return &Loop{
		fns:  make(chan func(), 64),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Run processes posted functions until Stop is called, then drains
// whatever is already queued and returns. It is intended to occupy the
// goroutine that owns the UI.
func (l *Loop) Run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.fns:
			fn()
		case <-l.quit:
			for {
				select {
				case fn := <-l.fns:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Post schedules fn to run on the loop goroutine. Callable from any
// goroutine; each accepted fn runs exactly once, in posting order.
// Returns false once the loop has been stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.fns <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Stop asks the loop to finish. Idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		log.Printf("eventloop: stop requested")
		close(l.quit)
	})
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }
