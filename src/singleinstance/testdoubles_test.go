package singleinstance

import (
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"
)

// inlineScheduler runs posted functions immediately on the calling
// goroutine, standing in for the UI loop in tests.
type inlineScheduler struct{}

func (inlineScheduler) Post(fn func()) bool {
	fn()
	return true
}

// deadScheduler refuses every post, as a stopped loop would.
type deadScheduler struct{}

func (deadScheduler) Post(func()) bool { return false }

// fakeFrontend records coordinator-driven window operations. With broken
// set, every call fails as if the window were destroyed.
type fakeFrontend struct {
	mu       sync.Mutex
	shown    bool
	iconized bool
	broken   bool

	showCalls    int
	iconizeCalls int
	raiseCalls   int
	focusCalls   int
}

var errWindowDestroyed = errors.New("window destroyed")

func (f *fakeFrontend) IsShown() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return false, errWindowDestroyed
	}
	return f.shown, nil
}

func (f *fakeFrontend) Show(show bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return errWindowDestroyed
	}
	f.shown = show
	f.showCalls++
	return nil
}

func (f *fakeFrontend) IsIconized() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return false, errWindowDestroyed
	}
	return f.iconized, nil
}

func (f *fakeFrontend) Iconize(iconize bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return errWindowDestroyed
	}
	f.iconized = iconize
	f.iconizeCalls++
	return nil
}

func (f *fakeFrontend) Raise() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return errWindowDestroyed
	}
	f.raiseCalls++
	return nil
}

func (f *fakeFrontend) SetFocus() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return errWindowDestroyed
	}
	f.focusCalls++
	return nil
}

func (f *fakeFrontend) calls() (show, iconize, raise, focus int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showCalls, f.iconizeCalls, f.raiseCalls, f.focusCalls
}

// attentiveFrontend additionally implements AttentionRequester.
type attentiveFrontend struct {
	fakeFrontend
	attentionCalls int
}

func (f *attentiveFrontend) RequestUserAttention() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attentionCalls++
	return nil
}

// panickyFrontend blows up on Raise, like a wrapper around a freed
// native handle.
type panickyFrontend struct {
	fakeFrontend
}

func (f *panickyFrontend) Raise() error {
	panic("use after destroy")
}

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving port: %v", err)
	}
	port := lis.Addr().(*net.TCPAddr).Port
	_ = lis.Close()
	return port
}

func dialServer(t *testing.T, port int) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(residentHost, strconv.Itoa(port)), 2*time.Second)
	if err != nil {
		t.Fatalf("dialing server: %v", err)
	}
	return conn
}

func exchange(t *testing.T, port int, payload string) string {
	t.Helper()
	conn := dialServer(t, port)
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(3 * time.Second))
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("writing payload: %v", err)
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("reading ack: %v", err)
	}
	return string(buf[:n])
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
