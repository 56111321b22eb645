package sim

import (
	"net"
	"testing"
	"time"

	"github.com/jdomian/obd-gauge/internal/state"
	"github.com/jdomian/obd-gauge/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startSession runs a session over one end of an in-memory connection and
// returns the client end plus the session's completion channel.
func startSession(t *testing.T, store state.Store, idleTimeout time.Duration) (net.Conn, chan error) {
	t.Helper()

	server, client := net.Pipe()
	sess := NewSession(NewEngine(store), transport.NewTCP(server), idleTimeout)

	done := make(chan error, 1)
	go func() {
		done <- sess.Run()
		server.Close()
	}()
	t.Cleanup(func() { client.Close() })

	return client, done
}

// readUntilPrompt collects bytes from the client end until the '>' prompt.
func readUntilPrompt(t *testing.T, conn net.Conn) string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var out []byte
	buf := make([]byte, 1)
	for {
		n, err := conn.Read(buf)
		require.NoError(t, err, "reading reply, got %q so far", out)
		if n == 0 {
			continue
		}
		out = append(out, buf[0])
		if buf[0] == '>' {
			return string(out)
		}
	}
}

func TestSessionEndToEnd(t *testing.T) {
	store := state.NewMemoryStore()
	require.NoError(t, store.SetField(state.FieldCoolant, 75))

	client, done := startSession(t, store, time.Second)

	// Session open primes the read loop with a bare prompt.
	assert.Equal(t, ">", readUntilPrompt(t, client))

	// Reset.
	_, err := client.Write([]byte("ATZ\r"))
	require.NoError(t, err)
	assert.Equal(t, "ELM327 v2.1\r\r>", readUntilPrompt(t, client))

	// Coolant query: 75 C encodes to 0x73.
	_, err = client.Write([]byte("0105\r"))
	require.NoError(t, err)
	assert.Equal(t, "41 05 73\r\r>", readUntilPrompt(t, client))

	// Bare terminator: prompt only, no echo.
	_, err = client.Write([]byte("\r"))
	require.NoError(t, err)
	assert.Equal(t, "\r>", readUntilPrompt(t, client))

	// Peer close ends the session silently.
	client.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end after peer close")
	}
}

func TestSessionFramingExactness(t *testing.T) {
	tests := []struct {
		name string
		send string
		want string
	}{
		{"recognized", "ATI\r", "ELM327 v2.1\r\r>"},
		{"acknowledged", "ATE0\r", "OK\r\r>"},
		{"unmapped pid", "0199\r", "NO DATA\r\r>"},
		{"unrecognized", "BOGUS\r", "?\r\r>"},
		{"newline terminator", "ATI\n", "ELM327 v2.1\r\r>"},
		{"empty", "\r", "\r>"},
		{"empty newline", "\n", "\r>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := startSession(t, state.NewMemoryStore(), time.Second)
			assert.Equal(t, ">", readUntilPrompt(t, client))

			_, err := client.Write([]byte(tt.send))
			require.NoError(t, err)
			assert.Equal(t, tt.want, readUntilPrompt(t, client))
		})
	}
}

func TestSessionCRLFTerminatorPair(t *testing.T) {
	// "ATZ\r\n" is one command plus one empty command, not two dispatches of
	// the same buffer.
	client, _ := startSession(t, state.NewMemoryStore(), time.Second)
	assert.Equal(t, ">", readUntilPrompt(t, client))

	// net.Pipe writes are synchronous, and the session replies to the CR
	// before it consumes the LF, so the write must not block the reader.
	go client.Write([]byte("ATZ\r\n"))
	assert.Equal(t, "ELM327 v2.1\r\r>", readUntilPrompt(t, client))
	assert.Equal(t, "\r>", readUntilPrompt(t, client))
}

func TestSessionIdleTimeoutDiscardsPartialBuffer(t *testing.T) {
	client, done := startSession(t, state.NewMemoryStore(), 50*time.Millisecond)
	assert.Equal(t, ">", readUntilPrompt(t, client))

	// A dangling partial command never gets a reply.
	_, err := client.Write([]byte("010C"))
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not time out")
	}

	// Nothing was written after the initial prompt.
	require.NoError(t, client.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	buf := make([]byte, 16)
	n, _ := client.Read(buf)
	assert.Zero(t, n, "unexpected bytes after teardown: %q", buf[:n])
}
