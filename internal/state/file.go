package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// DefaultStateFile is the well-known snapshot location shared between the
// simulator and the control surface.
const DefaultStateFile = "/tmp/obd_sim_state.json"

// FileStore keeps the state in a JSON snapshot file so a separate
// control-surface process can drive the simulator. Every read loads the whole
// file; every write replaces it via a temp file and rename, so a concurrent
// reader sees either the old or the new snapshot, never a mix.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore at path, initializing the snapshot with
// the idle defaults if it does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	f := &FileStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := f.write(Defaults()); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// State reads the snapshot. A missing or corrupt file yields the defaults:
// the protocol engine must never fail a read.
func (f *FileStore) State() VehicleState {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Defaults()
	}
	s := Defaults()
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults()
	}
	return s
}

func (f *FileStore) SetField(name string, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.State()
	field, ok := s.field(name)
	if !ok {
		return ErrUnknownField{Name: name}
	}
	*field = value
	return f.write(s)
}

func (f *FileStore) ApplyPreset(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.State()
	if err := applyTo(&s, name); err != nil {
		return err
	}
	return f.write(s)
}

// write replaces the snapshot atomically.
func (f *FileStore) write(s VehicleState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".obd_sim_state_*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
