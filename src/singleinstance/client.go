package singleinstance

import (
	"log"
	"net"
	"strconv"
	"time"
)

const (
	probeConnectTimeout = 2 * time.Second
	probeAckTimeout     = 1 * time.Second
)

// Probe reports whether a resident instance answers on the coordination
// port. On success the resident has already been asked to bring its
// window to the foreground and the caller should exit without creating
// a window of its own. Connection refusal or timeout is the ordinary
// "no resident" path, not an error. A single attempt is authoritative.
func Probe(port int) bool {
	addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, probeConnectTimeout)
	if err != nil {
		log.Printf("singleinstance: no resident on %s: %v", addr, err)
		return false
	}
	defer conn.Close()

	payload, err := encodeMessage(Message{Command: CommandFocus})
	if err != nil {
		log.Printf("singleinstance: encode focus command: %v", err)
		return false
	}
	_ = conn.SetWriteDeadline(time.Now().Add(probeConnectTimeout))
	if _, err := conn.Write(payload); err != nil {
		log.Printf("singleinstance: send to resident failed: %v", err)
		return false
	}

	// Ack is best-effort; a resident that stays silent still counts.
	_ = conn.SetReadDeadline(time.Now().Add(probeAckTimeout))
	buf := make([]byte, 64)
	if n, err := conn.Read(buf); err == nil {
		log.Printf("singleinstance: resident answered %q", buf[:n])
	}

	log.Printf("singleinstance: forwarded focus command to resident on %s", addr)
	return true
}
