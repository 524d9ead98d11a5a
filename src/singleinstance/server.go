package singleinstance

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

const (
	acceptInterval = 1 * time.Second
	readTimeout    = 5 * time.Second
	joinTimeout    = 2 * time.Second
)

// Server owns the loopback coordination endpoint. While it holds the
// port, no second plugin instance can become primary: the exclusivity is
// the OS bind semantics, not application logic. Connections are handled
// synchronously and inline; command volume is one human clicking one
// icon, and serial handling keeps two focus commands from racing inside
// dispatch.
type Server struct {
	port       int
	dispatcher *Dispatcher
	registry   *Registry

	mu      sync.Mutex
	lis     *net.TCPListener
	running bool
	done    chan struct{}
}

func NewServer(port int, registry *Registry, dispatcher *Dispatcher) *Server {
	return &Server{port: port, registry: registry, dispatcher: dispatcher}
}

// Port returns the configured coordination port.
func (s *Server) Port() int { return s.port }

// Start binds the loopback listener and launches the accept loop.
// Returns false on bind failure (port held by an unresponsive process);
// the caller keeps running in a degraded mode without cross-process
// focus forwarding rather than aborting. Calling Start on a server that
// is already listening is a no-op returning true.
func (s *Server) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return true
	}

	addr := fmt.Sprintf("%s:%d", residentHost, s.port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return false
	}

	s.lis = lis.(*net.TCPListener)
	s.running = true
	s.done = make(chan struct{})
	go s.acceptLoop(s.lis, s.done)

	log.Printf("singleinstance: listening on %s", addr)
	return true
}

func (s *Server) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// acceptLoop polls Accept with a short deadline so a stop request is
// observed within one interval even if closing the listener were not
// enough to unblock it.
func (s *Server) acceptLoop(lis *net.TCPListener, done chan struct{}) {
	defer close(done)
	for s.isRunning() {
		_ = lis.SetDeadline(time.Now().Add(acceptInterval))
		conn, err := lis.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if s.isRunning() {
				log.Printf("singleinstance: accept: %v", err)
			}
			return
		}
		s.handleConn(conn)
	}
}

// handleConn reads one bounded payload, decodes, dispatches, and
// acknowledges: OK when the payload decoded (recognized command or not),
// ERROR when it did not. A bad message never takes the loop down.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()

	_ = conn.SetDeadline(time.Now().Add(readTimeout))
	buf := make([]byte, maxPayloadBytes)
	n, err := conn.Read(buf)
	if err != nil {
		log.Printf("singleinstance: read from %s: %v", remote, err)
		return
	}

	msg, err := decodeMessage(buf[:n])
	if err != nil {
		log.Printf("singleinstance: invalid payload from %s: %v", remote, err)
		_, _ = conn.Write([]byte(ackError))
		return
	}

	log.Printf("singleinstance: command %q from %s", msg.Command, remote)
	s.dispatcher.Dispatch(msg.Command)
	_, _ = conn.Write([]byte(ackOK))
}

// Stop closes the listener, waits briefly for the accept loop to drain,
// and clears the frontend registry. Idempotent: safe to call repeatedly
// or before Start, and the port is free for a subsequent Start.
func (s *Server) Stop() {
	s.mu.Lock()
	lis := s.lis
	done := s.done
	s.lis = nil
	s.done = nil
	s.running = false
	s.mu.Unlock()

	if lis != nil {
		_ = lis.Close()
	}
	if done != nil {
		select {
		case <-done:
		case <-time.After(joinTimeout):
			log.Printf("singleinstance: accept loop did not stop within %s", joinTimeout)
		}
	}

	s.registry.Unregister()
	log.Printf("singleinstance: server stopped")
}
