package sim

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jdomian/obd-gauge/internal/transport"
	"github.com/jdomian/obd-gauge/pkg/log"

	"go.uber.org/zap"
)

// Prompt is the ready-for-next-command byte.
const Prompt = ">"

// DefaultIdleTimeout tears down a session when no terminator arrives.
const DefaultIdleTimeout = 30 * time.Second

// Session drives one connection: it collects characters from the transport
// until a terminator, dispatches the buffered command, and writes the framed
// reply. The protocol is strictly request-then-response.
type Session struct {
	engine      *Engine
	tr          transport.Transport
	idleTimeout time.Duration
	flags       Flags
}

// NewSession creates a session over the given transport. A non-positive
// idleTimeout falls back to DefaultIdleTimeout.
func NewSession(engine *Engine, tr transport.Transport, idleTimeout time.Duration) *Session {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Session{
		engine:      engine,
		tr:          tr,
		idleTimeout: idleTimeout,
		flags:       DefaultFlags(),
	}
}

// Run services the session until the peer disconnects or the idle window
// expires. A dangling partial command is discarded silently; only transport
// failures other than timeout and close are reported.
func (s *Session) Run() error {
	// The very first bytes prime the client's read loop.
	if _, err := s.tr.Write([]byte(Prompt)); err != nil {
		return err
	}
	log.Info("session started")

	var buf strings.Builder
	for {
		b, err := s.tr.ReadByte(s.idleTimeout)
		if err != nil {
			switch {
			case errors.Is(err, transport.ErrTimeout):
				log.Info("session idle timeout", zap.Duration("window", s.idleTimeout))
				return nil
			case errors.Is(err, io.EOF):
				log.Info("session closed by peer")
				return nil
			default:
				log.Warn("session read failed", zap.Error(err))
				return err
			}
		}

		if b != '\r' && b != '\n' {
			buf.WriteByte(b)
			continue
		}

		reply := s.reply(buf.String())
		buf.Reset()
		if _, err := s.tr.Write([]byte(reply)); err != nil {
			log.Warn("session write failed", zap.Error(err))
			return err
		}
	}
}

// reply frames the dispatched body: "<body>\r\r>" for a non-empty command,
// a bare "\r>" otherwise.
func (s *Session) reply(raw string) string {
	body := s.engine.Dispatch(raw, &s.flags)
	if body == "" {
		return "\r" + Prompt
	}
	log.Debug("command dispatched",
		zap.String("command", Normalize(raw)),
		zap.String("response", body))
	return body + "\r\r" + Prompt
}
