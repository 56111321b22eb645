package transport

import (
	"io"
	"os"
	"sync"
	"time"
)

// Pipe is a Transport over any reader/writer pair. A pump goroutine reads
// the source one byte at a time so ReadByte can honor a timeout even when
// the underlying reader (stdin in particular) has no deadline support.
type Pipe struct {
	r io.Reader
	w io.Writer

	once  sync.Once
	bytes chan byte
	errs  chan error
}

// NewPipe creates a Pipe over r and w.
func NewPipe(r io.Reader, w io.Writer) *Pipe {
	return &Pipe{
		r:     r,
		w:     w,
		bytes: make(chan byte),
		errs:  make(chan error, 1),
	}
}

// NewStdio creates a Pipe over the process's standard input and output, the
// binding used behind an rfcomm watch / socat bridge.
func NewStdio() *Pipe {
	return NewPipe(os.Stdin, os.Stdout)
}

func (p *Pipe) pump() {
	buf := make([]byte, 1)
	for {
		n, err := p.r.Read(buf)
		if n > 0 {
			p.bytes <- buf[0]
		}
		if err != nil {
			p.errs <- err
			return
		}
	}
}

func (p *Pipe) ReadByte(timeout time.Duration) (byte, error) {
	p.once.Do(func() { go p.pump() })

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case b := <-p.bytes:
		return b, nil
	case err := <-p.errs:
		return 0, err
	case <-timer.C:
		return 0, ErrTimeout
	}
}

func (p *Pipe) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

// Close closes the endpoints that support it. Stdin/stdout are left to the
// process lifetime.
func (p *Pipe) Close() error {
	var err error
	if c, ok := p.r.(io.Closer); ok && p.r != io.Reader(os.Stdin) {
		err = c.Close()
	}
	if c, ok := p.w.(io.Closer); ok && p.w != io.Writer(os.Stdout) {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
