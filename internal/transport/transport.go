// Package transport binds the command interpreter's character stream to a
// concrete channel: a serial device, a TCP connection, or an arbitrary
// reader/writer pair such as process stdin/stdout. All bindings deliver
// bytes in arrival order and support a per-read timeout.
package transport

import (
	"errors"
	"time"
)

// ErrTimeout reports that no byte arrived within the requested window.
var ErrTimeout = errors.New("transport: read timeout")

// Transport is one logical connection. A peer close surfaces as io.EOF from
// ReadByte; the caller is expected to tear the session down on any error.
type Transport interface {
	// ReadByte blocks until one byte arrives, the timeout elapses
	// (ErrTimeout), or the channel fails.
	ReadByte(timeout time.Duration) (byte, error)
	Write(p []byte) (n int, err error)
	Close() error
}
