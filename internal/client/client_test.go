package client

import (
	"net"
	"testing"
	"time"

	"github.com/jdomian/obd-gauge/internal/sim"
	"github.com/jdomian/obd-gauge/internal/state"
	"github.com/jdomian/obd-gauge/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataBytes(t *testing.T) {
	tests := []struct {
		name string
		line string
		pid  string
		want []byte
		ok   bool
	}{
		{"spaced", "41 0C 27 10", "0C", []byte{0x27, 0x10}, true},
		{"packed", "410C2710", "0C", []byte{0x27, 0x10}, true},
		{"lowercase", "41 0c 27 10", "0c", []byte{0x27, 0x10}, true},
		{"single byte", "41 05 73", "05", []byte{0x73}, true},
		{"wrong pid", "41 0C 27 10", "0D", nil, false},
		{"no data", "NO DATA", "0C", nil, false},
		{"header only", "410C", "0C", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := dataBytes(tt.line, tt.pid)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHexByte(t *testing.T) {
	b, err := parseHexByte("7F")
	require.NoError(t, err)
	assert.Equal(t, byte(0x7F), b)

	b, err = parseHexByte("a0")
	require.NoError(t, err)
	assert.Equal(t, byte(0xA0), b)

	_, err = parseHexByte("ZZ")
	assert.Error(t, err)
}

// startClient wires a Client to a live session over an in-memory connection.
func startClient(t *testing.T, store state.Store) *Client {
	t.Helper()

	server, conn := net.Pipe()
	sess := sim.NewSession(sim.NewEngine(store), transport.NewTCP(server), 5*time.Second)
	go func() {
		_ = sess.Run()
		server.Close()
	}()

	c := New(transport.NewTCP(conn), time.Second)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClientInitAndQueries(t *testing.T) {
	store := state.NewMemoryStore()
	require.NoError(t, store.SetField(state.FieldRPM, 2500))
	require.NoError(t, store.SetField(state.FieldCoolant, 90))
	require.NoError(t, store.SetField(state.FieldSpeed, 120))
	require.NoError(t, store.SetField(state.FieldMAP, 180))
	require.NoError(t, store.SetField(state.FieldVoltage, 13.8))

	c := startClient(t, store)
	require.NoError(t, c.Init())

	rpm, err := c.RPM()
	require.NoError(t, err)
	assert.Equal(t, 2500, rpm)

	temp, err := c.CoolantTemp()
	require.NoError(t, err)
	assert.Equal(t, 90.0, temp)

	speed, err := c.Speed()
	require.NoError(t, err)
	assert.Equal(t, 120, speed)

	kpa, err := c.MAP()
	require.NoError(t, err)
	assert.Equal(t, 180, kpa)

	v, err := c.Voltage()
	require.NoError(t, err)
	assert.InDelta(t, 13.8, v, 0.01)
}

func TestClientThrottleRoundTrip(t *testing.T) {
	store := state.NewMemoryStore()
	require.NoError(t, store.SetField(state.FieldThrottle, 50))

	c := startClient(t, store)
	require.NoError(t, c.Init())

	tps, err := c.Throttle()
	require.NoError(t, err)
	// 50% encodes to a byte and back, so allow the quantization step.
	assert.InDelta(t, 50.0, tps, 0.5)
}

func TestClientQueryUnknownCommand(t *testing.T) {
	c := startClient(t, state.NewMemoryStore())
	require.NoError(t, c.Init())

	resp, err := c.Query("0902")
	require.NoError(t, err)
	assert.Equal(t, "?", resp)
}
