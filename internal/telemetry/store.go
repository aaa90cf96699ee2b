package telemetry

import (
	"sync"
	"time"
)

// Store holds the latest heartbeat per known device. It is created with
// every known device absent and is never cleared.
type Store struct {
	mu      sync.RWMutex
	entries map[DeviceID]Entry
}

// NewStore returns a store with all KnownDevices unseen.
func NewStore() *Store {
	entries := make(map[DeviceID]Entry, len(KnownDevices))
	for _, id := range KnownDevices {
		entries[id] = Entry{}
	}
	return &Store{entries: entries}
}

// Update replaces the record and timestamp for id in one step.
// Unknown ids are ignored and reported as false. LastSeen never moves
// backwards, even if now does.
func (s *Store) Update(id DeviceID, rec Record, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.entries[id]
	if !ok {
		return false
	}
	if prev.Seen && now.Before(prev.LastSeen) {
		now = prev.LastSeen
	}
	s.entries[id] = Entry{Record: rec, LastSeen: now, Seen: true}
	return true
}

// Ingest decodes payload and stores it. The returned error is the decode
// failure, if any; the store is untouched in that case.
func (s *Store) Ingest(payload []byte, now time.Time) (DeviceID, error) {
	id, rec, err := Decode(payload)
	if err != nil {
		return "", err
	}
	s.Update(id, rec, now)
	return id, nil
}

// Get returns the entry for id. The boolean is false for unknown ids.
func (s *Store) Get(id DeviceID) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Snapshot returns every known device in display order, read under a
// single lock so record and timestamp always belong together.
func (s *Store) Snapshot() []DeviceState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DeviceState, 0, len(KnownDevices))
	for _, id := range KnownDevices {
		out = append(out, DeviceState{ID: id, Entry: s.entries[id]})
	}
	return out
}
