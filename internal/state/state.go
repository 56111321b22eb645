package state

// VehicleState holds the simulated vehicle signals the PID responses are
// rendered from. JSON tags match the snapshot file written by the control
// surface, so an external writer and the simulator share one format.
type VehicleState struct {
	ThrottlePct float64 `json:"throttle"`
	RPM         float64 `json:"rpm"`
	MAPKPa      float64 `json:"map_kpa"`
	CoolantC    float64 `json:"coolant_c"`
	SpeedKPH    float64 `json:"speed_kph"`
	IntakeTempC float64 `json:"intake_temp_c"`
	Voltage     float64 `json:"voltage"`
	BaroKPa     float64 `json:"baro_kpa"`
}

// Field names accepted by Store.SetField.
const (
	FieldThrottle   = "throttle"
	FieldRPM        = "rpm"
	FieldMAP        = "map_kpa"
	FieldCoolant    = "coolant_c"
	FieldSpeed      = "speed_kph"
	FieldIntakeTemp = "intake_temp_c"
	FieldVoltage    = "voltage"
	FieldBaro       = "baro_kpa"
)

// PSIPerKPa converts kilopascals to pounds per square inch.
const PSIPerKPa = 0.145038

// Defaults returns the idle state: engine idling, vehicle stationary.
func Defaults() VehicleState {
	return VehicleState{
		ThrottlePct: 0,
		RPM:         660,
		MAPKPa:      38,
		CoolantC:    75,
		SpeedKPH:    0,
		IntakeTempC: 25,
		Voltage:     14.3,
		BaroKPa:     99,
	}
}

// BoostPSI is the pressure above/below atmospheric, derived from MAP and the
// barometric reading. Display-only; the PID table encodes MAP directly.
func (s VehicleState) BoostPSI() float64 {
	return (s.MAPKPa - s.BaroKPa) * PSIPerKPa
}

func (s *VehicleState) field(name string) (*float64, bool) {
	switch name {
	case FieldThrottle:
		return &s.ThrottlePct, true
	case FieldRPM:
		return &s.RPM, true
	case FieldMAP:
		return &s.MAPKPa, true
	case FieldCoolant:
		return &s.CoolantC, true
	case FieldSpeed:
		return &s.SpeedKPH, true
	case FieldIntakeTemp:
		return &s.IntakeTempC, true
	case FieldVoltage:
		return &s.Voltage, true
	case FieldBaro:
		return &s.BaroKPa, true
	}
	return nil, false
}
