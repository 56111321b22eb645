package transport

import (
	"net"
	"time"
)

// TCP is a Transport over one accepted stream connection.
type TCP struct {
	conn net.Conn
}

// NewTCP wraps an accepted connection.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{conn: conn}
}

func (t *TCP) ReadByte(timeout time.Duration) (byte, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	var buf [1]byte
	for {
		n, err := t.conn.Read(buf[:])
		if n > 0 {
			return buf[0], nil
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return 0, ErrTimeout
			}
			return 0, err
		}
	}
}

func (t *TCP) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

func (t *TCP) Close() error {
	return t.conn.Close()
}
