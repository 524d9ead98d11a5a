package singleinstance

// Wire protocol for the loopback coordination endpoint: one JSON command
// object per connection, answered with a 2-byte ASCII ack.

import (
	"encoding/json"
	"os"
	"strconv"
)

const (
	residentHost = "127.0.0.1"
	defaultPort  = 59999

	// CommandFocus asks the resident to bring its window to the foreground.
	// It is the only command the dispatcher acts on; anything else decodes
	// fine but is ignored.
	CommandFocus = "focus"

	ackOK    = "OK"
	ackError = "ERROR"

	maxPayloadBytes = 1024
)

// Message is the single command object exchanged over the wire.
type Message struct {
	Command string `json:"command"`
}

func encodeMessage(m Message) ([]byte, error) {
	return json.Marshal(m)
}

func decodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// GetPort returns the coordination port. Environment variable
// IMPART_PORT (integer) overrides the default; values outside
// [1024, 65535] fall back to the default.
func GetPort() int {
	if v := os.Getenv("IMPART_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1024 && n <= 65535 {
			return n
		}
	}
	return defaultPort
}
