// Package control is the human-driven surface that mutates the simulated
// vehicle state between protocol queries.
package control

import (
	"fmt"
	"strings"

	"github.com/jdomian/obd-gauge/internal/state"
)

// Setter aliases accepted by Set, on top of the raw state field names.
const (
	SetterRPM      = "rpm"
	SetterBoost    = "boost"
	SetterThrottle = "throttle"
	SetterCoolant  = "coolant"
	SetterSpeed    = "speed"
)

// Set writes one value into the store. "boost" takes PSI relative to
// atmosphere and derives the stored MAP from the current barometric reading;
// everything else maps onto a state field directly.
func Set(st state.Store, name string, value float64) error {
	switch strings.ToLower(name) {
	case SetterRPM:
		return st.SetField(state.FieldRPM, value)
	case SetterThrottle:
		return st.SetField(state.FieldThrottle, value)
	case SetterCoolant:
		return st.SetField(state.FieldCoolant, value)
	case SetterSpeed:
		return st.SetField(state.FieldSpeed, value)
	case SetterBoost:
		s := st.State()
		return st.SetField(state.FieldMAP, s.BaroKPa+value/state.PSIPerKPa)
	default:
		// Raw field names (map_kpa, intake_temp_c, ...) still work; unknown
		// names surface the store's error.
		return st.SetField(strings.ToLower(name), value)
	}
}

// Preset applies a named bundle (wot, idle).
func Preset(st state.Store, name string) error {
	return st.ApplyPreset(strings.ToLower(name))
}

// Show renders the current state for the terminal.
func Show(st state.Store) string {
	s := st.State()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Throttle:  %6.1f %%\n", s.ThrottlePct)
	fmt.Fprintf(&sb, "RPM:       %6.0f\n", s.RPM)
	fmt.Fprintf(&sb, "MAP:       %6.1f kPa (%+.1f PSI boost)\n", s.MAPKPa, s.BoostPSI())
	fmt.Fprintf(&sb, "Speed:     %6.1f km/h\n", s.SpeedKPH)
	fmt.Fprintf(&sb, "Coolant:   %6.1f C\n", s.CoolantC)
	fmt.Fprintf(&sb, "Intake:    %6.1f C\n", s.IntakeTempC)
	fmt.Fprintf(&sb, "Voltage:   %6.1f V\n", s.Voltage)
	fmt.Fprintf(&sb, "Baro:      %6.1f kPa\n", s.BaroKPa)
	return sb.String()
}
