package state

import (
	"fmt"
	"sync"
)

// Store is the simulated vehicle state accessed by the protocol engine
// (read-only) and the control surface (read/write).
type Store interface {
	// State returns the current snapshot, defaults if nothing was ever set.
	State() VehicleState
	// SetField updates one named field. Values are stored as given; clamping
	// happens at PID-encoding time.
	SetField(name string, value float64) error
	// ApplyPreset applies a named bundle of field assignments atomically.
	ApplyPreset(name string) error
}

// ErrUnknownField is returned by SetField for an unrecognized field name.
type ErrUnknownField struct {
	Name string
}

func (e ErrUnknownField) Error() string {
	return fmt.Sprintf("unknown state field %q", e.Name)
}

// ErrUnknownPreset is returned by ApplyPreset for an unrecognized preset name.
type ErrUnknownPreset struct {
	Name string
}

func (e ErrUnknownPreset) Error() string {
	return fmt.Sprintf("unknown preset %q", e.Name)
}

// Presets are fixed bundles of field assignments.
const (
	PresetWOT  = "wot"
	PresetIdle = "idle"
)

var presets = map[string]map[string]float64{
	PresetWOT: {
		FieldThrottle: 100,
		FieldRPM:      6000,
		FieldMAP:      237,
	},
	PresetIdle: {
		FieldThrottle: 0,
		FieldRPM:      660,
		FieldMAP:      38,
	},
}

// PresetNames lists the available presets.
func PresetNames() []string {
	return []string{PresetWOT, PresetIdle}
}

func applyTo(s *VehicleState, name string) error {
	bundle, ok := presets[name]
	if !ok {
		return ErrUnknownPreset{Name: name}
	}
	for field, value := range bundle {
		f, ok := s.field(field)
		if !ok {
			return ErrUnknownField{Name: field}
		}
		*f = value
	}
	return nil
}

// MemoryStore keeps the state in memory behind a mutex. Used by tests and
// when the simulator runs without an external control surface.
type MemoryStore struct {
	mu    sync.RWMutex
	state VehicleState
}

// NewMemoryStore creates a MemoryStore seeded with the idle defaults.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: Defaults()}
}

func (m *MemoryStore) State() VehicleState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *MemoryStore) SetField(name string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.state.field(name)
	if !ok {
		return ErrUnknownField{Name: name}
	}
	*f = value
	return nil
}

func (m *MemoryStore) ApplyPreset(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return applyTo(&m.state, name)
}
