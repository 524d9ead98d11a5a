package backend

import (
	"strings"
	"sync"
)

// StatusBuffer is the append-only import log shared between import
// workers and the status poller. Lines only accumulate during a session;
// nothing ever removes them. Every append bumps a version counter so
// change detection is exact even when a write leaves the length equal.
type StatusBuffer struct {
	mu      sync.Mutex
	b       strings.Builder
	version uint64
}

func NewStatusBuffer() *StatusBuffer { return &StatusBuffer{} }

// Append adds one line of status text. Safe from any goroutine.
func (s *StatusBuffer) Append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.WriteString(line)
	if !strings.HasSuffix(line, "\n") {
		s.b.WriteByte('\n')
	}
	s.version++
}

// Snapshot returns the full buffer content and the version it
// corresponds to.
func (s *StatusBuffer) Snapshot() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String(), s.version
}

// Version returns the current write counter without copying the text.
func (s *StatusBuffer) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
