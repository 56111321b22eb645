package transport

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// pollInterval is the port's native read timeout; ReadByte loops over it
// until its own deadline.
const pollInterval = 100 * time.Millisecond

// Serial is a Transport over a POSIX serial-like character device, typically
// an RFCOMM node bound by the Bluetooth stack.
type Serial struct {
	port *serial.Port
}

// OpenSerial opens the device at the given baud rate.
func OpenSerial(device string, baud int) (*Serial, error) {
	cfg := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: pollInterval,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", device, err)
	}
	return &Serial{port: port}, nil
}

// ReadByte polls the port until a byte arrives or the deadline passes. The
// serial layer reports an elapsed read timeout as EOF with zero bytes, which
// is not a real end-of-stream.
func (s *Serial) ReadByte(timeout time.Duration) (byte, error) {
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 1)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			return buf[0], nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if time.Now().After(deadline) {
			return 0, ErrTimeout
		}
	}
}

func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *Serial) Close() error {
	return s.port.Close()
}
