// Package client is a minimal ELM327 client used to exercise a running
// simulator end to end, over TCP or a serial device.
package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/jdomian/obd-gauge/internal/transport"
	"github.com/jdomian/obd-gauge/pkg/log"

	"go.uber.org/zap"
)

// Adapter init sequence, the same one a real gauge sends.
const (
	CommandReset        = "ATZ"
	CommandEchoOff      = "ATE0"
	CommandLineFeedsOff = "ATL0"
	CommandSpacesOff    = "ATS0"
	CommandHeadersOff   = "ATH0"
	CommandProtocolCAN  = "ATSP6"
	CommandReadVoltage  = "ATRV"

	CR = "\r"
)

// DefaultTimeout bounds each query's wait for the '>' prompt.
const DefaultTimeout = 2 * time.Second

// Client speaks the ELM327 command/prompt protocol over a Transport.
type Client struct {
	tr      transport.Transport
	timeout time.Duration
}

// New creates a Client. A non-positive timeout falls back to DefaultTimeout.
func New(tr transport.Transport, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{tr: tr, timeout: timeout}
}

// Init drains the initial prompt, resets the adapter, and applies the
// standard configuration commands.
func (c *Client) Init() error {
	// The adapter writes a bare '>' on connect.
	if _, err := c.readResponse(); err != nil {
		return fmt.Errorf("no initial prompt: %w", err)
	}

	resp, err := c.Query(CommandReset)
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	if !strings.Contains(resp, "ELM327") {
		return fmt.Errorf("no ELM327 identification in reset response %q", resp)
	}
	log.Info("adapter identified", zap.String("id", strings.TrimSpace(resp)))

	for _, cmd := range []string{
		CommandEchoOff,
		CommandLineFeedsOff,
		CommandSpacesOff,
		CommandHeadersOff,
		CommandProtocolCAN,
	} {
		if _, err := c.Query(cmd); err != nil {
			return fmt.Errorf("command %s failed: %w", cmd, err)
		}
	}
	return nil
}

// Query sends one command and collects the reply up to the '>' prompt.
func (c *Client) Query(cmd string) (string, error) {
	if _, err := c.tr.Write([]byte(cmd + CR)); err != nil {
		return "", fmt.Errorf("failed to write command %q: %w", cmd, err)
	}
	return c.readResponse()
}

// readResponse collects bytes until the prompt or the per-query timeout.
func (c *Client) readResponse() (string, error) {
	var sb strings.Builder
	deadline := time.Now().Add(c.timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", fmt.Errorf("timeout waiting for prompt, partial response %q", sb.String())
		}
		b, err := c.tr.ReadByte(remaining)
		if err != nil {
			return "", err
		}
		if b == '>' {
			return strings.TrimSpace(sb.String()), nil
		}
		sb.WriteByte(b)
	}
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.tr.Close()
}
