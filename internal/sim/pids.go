package sim

import (
	"fmt"
	"math"
	"strings"

	"github.com/jdomian/obd-gauge/internal/state"
)

// PIDEntry maps a mode-01 PID to a response renderer. Fixed entries carry a
// canned reply; dynamic entries encode the current vehicle state per the
// OBD-II scaling rules.
type PIDEntry struct {
	Code   string
	Desc   string
	Render func(state.VehicleState) string
}

// pidTable holds every supported mode-01 PID, most specific first. The order
// is load-bearing: each entry is matched as a prefix ahead of the generic
// 01* NO DATA fallback.
var pidTable = []PIDEntry{
	{
		Code:   "0100",
		Desc:   "Supported PIDs 01-20",
		Render: fixed("41 00 BE 1F B8 13"),
	},
	{
		Code: "0104",
		Desc: "Calculated engine load",
		Render: func(s state.VehicleState) string {
			return encode1("04", s.ThrottlePct*0.8*255/100)
		},
	},
	{
		Code: "0105",
		Desc: "Engine coolant temperature",
		Render: func(s state.VehicleState) string {
			return encode1("05", s.CoolantC+40)
		},
	},
	{
		Code: "010B",
		Desc: "Intake manifold absolute pressure",
		Render: func(s state.VehicleState) string {
			return encode1("0B", s.MAPKPa)
		},
	},
	{
		Code: "010C",
		Desc: "Engine RPM",
		Render: func(s state.VehicleState) string {
			return encode2("0C", s.RPM*4)
		},
	},
	{
		Code: "010D",
		Desc: "Vehicle speed",
		Render: func(s state.VehicleState) string {
			return encode1("0D", s.SpeedKPH)
		},
	},
	{
		Code: "010F",
		Desc: "Intake air temperature",
		Render: func(s state.VehicleState) string {
			return encode1("0F", s.IntakeTempC+40)
		},
	},
	{
		Code: "0111",
		Desc: "Throttle position",
		Render: func(s state.VehicleState) string {
			return encode1("11", s.ThrottlePct*255/100)
		},
	},
	{
		Code:   "0120",
		Desc:   "Supported PIDs 21-40",
		Render: fixed("41 20 80 01 00 01"),
	},
	{
		Code: "0133",
		Desc: "Barometric pressure",
		Render: func(s state.VehicleState) string {
			return encode1("33", s.BaroKPa)
		},
	},
	{
		Code: "0142",
		Desc: "Control module voltage",
		Render: func(s state.VehicleState) string {
			return encode2("42", s.Voltage*1000)
		},
	},
	{
		Code: "0146",
		Desc: "Ambient air temperature",
		Render: func(s state.VehicleState) string {
			return encode1("46", s.IntakeTempC-10+40)
		},
	},
}

// fixed returns a renderer for a canned hex reply.
func fixed(hex string) func(state.VehicleState) string {
	body := spaceBytes(strings.ReplaceAll(hex, " ", ""))
	return func(state.VehicleState) string { return body }
}

// encode1 renders a mode-01 reply with a single data byte: "41 <pid> <A>".
func encode1(pid string, raw float64) string {
	return spaceBytes(fmt.Sprintf("41%s%02X", pid, clampByte(raw)))
}

// encode2 renders a mode-01 reply with a big-endian data word: "41 <pid> <A> <B>".
func encode2(pid string, raw float64) string {
	return spaceBytes(fmt.Sprintf("41%s%04X", pid, clampWord(raw)))
}

// clampByte rounds and saturates into 0-255. Out-of-range state values must
// never wrap on the wire.
func clampByte(v float64) byte {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return byte(r)
}

// clampWord rounds and saturates into 0-65535.
func clampWord(v float64) uint16 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 65535 {
		return 65535
	}
	return uint16(r)
}

// spaceBytes splits a hex string into space-separated byte pairs, the way
// the adapter formats every data reply.
func spaceBytes(hex string) string {
	var sb strings.Builder
	for i := 0; i < len(hex); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		end := i + 2
		if end > len(hex) {
			end = len(hex)
		}
		sb.WriteString(hex[i:end])
	}
	return sb.String()
}
