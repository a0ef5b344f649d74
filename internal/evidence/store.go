package evidence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/governor/internal/clock"
)

// Store is the append-only event store. It keeps an in-memory map mirrored
// to JSON files under a configurable store path, one file per event and
// one file per audit pack. Guarded by a single coarse mutex.
type Store struct {
	mu        sync.RWMutex
	events    map[string]Event
	packs     map[string]AuditPack
	byMission map[string][]string // missionID -> ordered event IDs (insertion order)

	storePath string
	clock     clock.Clock
}

// NewStore creates an event store rooted at storePath. If storePath is
// empty, persistence to disk is skipped and the store is purely in-memory
// (useful for tests).
func NewStore(storePath string, c clock.Clock) *Store {
	if c == nil {
		c = clock.Real{}
	}
	return &Store{
		events:    make(map[string]Event),
		packs:     make(map[string]AuditPack),
		byMission: make(map[string][]string),
		storePath: storePath,
		clock:     c,
	}
}

// Append records a new event. Event IDs and timestamps are assigned here so
// callers never race on ordering: event append order per mission is total
// and monotonic in timestamp, ties broken by insertion order.
func (s *Store) Append(eventType EventType, missionID string, data map[string]interface{}) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: s.clock.Now(),
		MissionID: missionID,
		Data:      data,
	}

	s.events[evt.ID] = evt
	if missionID != "" {
		s.byMission[missionID] = append(s.byMission[missionID], evt.ID)
	}

	if err := s.persistEvent(evt); err != nil {
		slog.Error("evidence: failed to persist event to disk", "event_id", evt.ID, "error", err)
	}

	return evt, nil
}

// EventsForMission returns every event for a mission, ordered by append
// order (which is timestamp-monotonic by construction).
func (s *Store) EventsForMission(missionID string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byMission[missionID]
	out := make([]Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.events[id])
	}
	return out
}

// AllEvents returns every event ever appended, sorted by timestamp then
// insertion order (used for full-archive export).
func (s *Store) AllEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// EventCount reports the total number of events ever appended. Surfaced
// on the health endpoint.
func (s *Store) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// SavePack persists an audit pack's metadata.
func (s *Store) SavePack(pack AuditPack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.packs[pack.ID] = pack
	if err := s.persistPack(pack); err != nil {
		return fmt.Errorf("persist audit pack %s: %w", pack.ID, err)
	}
	return nil
}

// GetPack retrieves a previously saved audit pack by ID.
func (s *Store) GetPack(id string) (AuditPack, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packs[id]
	return p, ok
}

func (s *Store) persistEvent(evt Event) error {
	if s.storePath == "" {
		return nil
	}
	if err := os.MkdirAll(s.storePath, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.storePath, evt.ID+".json")
	data, err := json.MarshalIndent(evt, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) persistPack(pack AuditPack) error {
	if s.storePath == "" {
		return nil
	}
	if err := os.MkdirAll(s.storePath, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.storePath, "pack_"+pack.ID+".json")
	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// VerifyAuditPack checks that every evidence item referenced by a pack has
// its verified flag set. Cryptographic verification is reserved; this is
// the v1 placeholder check.
func (s *Store) VerifyAuditPack(id string) (bool, error) {
	pack, ok := s.GetPack(id)
	if !ok {
		return false, fmt.Errorf("audit pack %s: %w", id, ErrPackNotFound)
	}
	for item, verified := range pack.Verified {
		if !verified {
			slog.Warn("evidence: audit pack verification failed", "pack_id", id, "item", item)
			return false, nil
		}
	}
	return true, nil
}
