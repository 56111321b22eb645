package sim

import (
	"testing"

	"github.com/jdomian/obd-gauge/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *state.MemoryStore) {
	t.Helper()
	store := state.NewMemoryStore()
	return NewEngine(store), store
}

func dispatch(e *Engine, cmd string) string {
	fl := DefaultFlags()
	return e.Dispatch(cmd, &fl)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"atz",
		" At Z ",
		"ATZ\r",
		"01 0c",
		"\n at rv \r",
		"",
		"??weird??",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestDispatchCaseAndSpaceInsensitive(t *testing.T) {
	e, _ := newTestEngine(t)

	want := dispatch(e, "ATZ")
	require.Equal(t, AdapterID, want)

	assert.Equal(t, want, dispatch(e, "atz"))
	assert.Equal(t, want, dispatch(e, " At Z "))
	assert.Equal(t, want, dispatch(e, "at z\r"))
}

func TestDispatchResponseTable(t *testing.T) {
	e, _ := newTestEngine(t)

	tests := []struct {
		cmd  string
		want string
	}{
		{"ATZ", AdapterID},
		{"ATI", AdapterID},
		{"AT@1", DeviceDesc},
		{"ATE0", ResponseOK},
		{"ATE1", ResponseOK},
		{"ATH0", ResponseOK},
		{"ATH1", ResponseOK},
		{"ATSP0", ResponseOK},
		{"ATSP6", ResponseOK},
		{"ATL0", ResponseOK},
		{"ATL1", ResponseOK},
		{"ATS0", ResponseOK},
		{"ATS1", ResponseOK},
		{"ATST20", ResponseOK},
		{"ATAT1", ResponseOK},
		{"ATDPN", ProtocolNumber},
		{"ATRV", "14.3V"},
		// Unlisted AT commands are still acknowledged.
		{"ATSH7DF", ResponseOK},
		{"ATWS", ResponseOK},
		// Fixed supported-PID bitmasks.
		{"0100", "41 00 BE 1F B8 13"},
		{"0120", "41 20 80 01 00 01"},
		// STN chip extras.
		{"STI", STNVersion},
		{"STSN", STNSerialNumber},
		{"STMFR", STNManufacturer},
		{"STXYZ", ResponseOK},
		// Recognized mode, unmapped PID.
		{"0199", ResponseNoData},
		{"01FF", ResponseNoData},
		// Everything else.
		{"03", ResponseUnknown},
		{"0902", ResponseUnknown},
		{"HELLO", ResponseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			assert.Equal(t, tt.want, dispatch(e, tt.cmd))
		})
	}
}

func TestDispatchPrefixPrecedence(t *testing.T) {
	e, _ := newTestEngine(t)

	// Specific PID entries must win over the generic 01* fallback, and the
	// fallback must win over the final "?".
	assert.NotEqual(t, ResponseNoData, dispatch(e, "0120"))
	assert.Equal(t, "41 20 80 01 00 01", dispatch(e, "0120"))
	assert.Equal(t, ResponseNoData, dispatch(e, "0199"))

	// Specific AT entries must win over the generic AT* OK.
	assert.Equal(t, AdapterID, dispatch(e, "ATZ"))
	assert.Equal(t, ProtocolNumber, dispatch(e, "ATDPN"))
}

func TestDispatchStateEncodedPIDs(t *testing.T) {
	e, store := newTestEngine(t)

	require.NoError(t, store.SetField(state.FieldRPM, 2500))
	require.NoError(t, store.SetField(state.FieldCoolant, 75))
	require.NoError(t, store.SetField(state.FieldSpeed, 60))
	require.NoError(t, store.SetField(state.FieldThrottle, 25))

	// 2500 RPM -> raw 10000 -> 0x2710.
	assert.Equal(t, "41 0C 27 10", dispatch(e, "010C"))
	// 75 C -> 115 -> 0x73.
	assert.Equal(t, "41 05 73", dispatch(e, "0105"))
	// 60 km/h -> 0x3C.
	assert.Equal(t, "41 0D 3C", dispatch(e, "010D"))
	// 25% -> 63.75 -> rounds to 64 -> 0x40.
	assert.Equal(t, "41 11 40", dispatch(e, "0111"))
	// Engine load tracks 80% of throttle: 20% -> 51 -> 0x33.
	assert.Equal(t, "41 04 33", dispatch(e, "0104"))
	// Defaults: intake 25 C -> 65 -> 0x41; baro 99 kPa -> 0x63.
	assert.Equal(t, "41 0F 41", dispatch(e, "010F"))
	assert.Equal(t, "41 33 63", dispatch(e, "0133"))
	// Ambient reads 10 C below intake: 15 C -> 55 -> 0x37.
	assert.Equal(t, "41 46 37", dispatch(e, "0146"))
	// Module voltage 14.3 V -> 14300 -> 0x37DC.
	assert.Equal(t, "41 42 37 DC", dispatch(e, "0142"))
}

func TestDispatchClampNotWrap(t *testing.T) {
	e, store := newTestEngine(t)

	require.NoError(t, store.SetField(state.FieldMAP, 999))
	assert.Equal(t, "41 0B FF", dispatch(e, "010B"))

	require.NoError(t, store.SetField(state.FieldMAP, -5))
	assert.Equal(t, "41 0B 00", dispatch(e, "010B"))

	require.NoError(t, store.SetField(state.FieldRPM, 999999))
	assert.Equal(t, "41 0C FF FF", dispatch(e, "010C"))
}

func TestDispatchVoltageTracksState(t *testing.T) {
	e, store := newTestEngine(t)

	require.NoError(t, store.SetField(state.FieldVoltage, 13.8))
	assert.Equal(t, "13.8V", dispatch(e, "ATRV"))
}

func TestDispatchEmptyCommand(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Equal(t, "", dispatch(e, ""))
	assert.Equal(t, "", dispatch(e, "  \r\n"))
}

func TestFlagsToggleAndReset(t *testing.T) {
	e, _ := newTestEngine(t)

	fl := DefaultFlags()
	require.True(t, fl.Echo)

	assert.Equal(t, ResponseOK, e.Dispatch("ATE0", &fl))
	assert.False(t, fl.Echo)
	assert.Equal(t, ResponseOK, e.Dispatch("ATS0", &fl))
	assert.False(t, fl.Spaces)
	assert.Equal(t, ResponseOK, e.Dispatch("ATH1", &fl))
	assert.True(t, fl.Headers)

	// Reset restores the power-on configuration.
	assert.Equal(t, AdapterID, e.Dispatch("ATZ", &fl))
	assert.Equal(t, DefaultFlags(), fl)
}
