package mission

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/codeready-toolchain/governor/internal/clock"
)

// snapshotStore owns pre-image snapshots. Lifetime of a snapshot equals
// the lifetime of its owning batch: destroyed when rollback completes or
// the mission is finalized and purged (purgeSnapshot).
type snapshotStore struct {
	mu    sync.RWMutex
	byRef map[string]Snapshot
	clock clock.Clock
}

func newSnapshotStore(c clock.Clock) *snapshotStore {
	return &snapshotStore{byRef: make(map[string]Snapshot), clock: c}
}

// take reads the current content of every given path (relative to workdir)
// and stores it under ref. Missing files are recorded as empty content with
// existed=false tracked implicitly by absence from the map key set — the
// restore step recreates only files that were present.
func (s *snapshotStore) take(workdir, ref string, paths []string) (Snapshot, error) {
	files := make(map[string]string, len(paths))
	for _, p := range paths {
		abs := filepath.Join(workdir, p)
		content, err := os.ReadFile(abs)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Snapshot{}, fmt.Errorf("snapshot %s: read %s: %w", ref, p, err)
		}
		files[p] = string(content)
	}

	snap := Snapshot{CheckpointOrBatchID: ref, Files: files, Timestamp: s.clock.Now()}

	s.mu.Lock()
	s.byRef[ref] = snap
	s.mu.Unlock()

	return snap, nil
}

// restore writes every file in the snapshot back to workdir verbatim.
func (s *snapshotStore) restore(workdir string, snap Snapshot) error {
	for p, content := range snap.Files {
		abs := filepath.Join(workdir, p)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("restore %s: %w", p, err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			return fmt.Errorf("restore %s: %w", p, err)
		}
	}
	return nil
}

func (s *snapshotStore) get(ref string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byRef[ref]
	return snap, ok
}

// purge discards a snapshot once its owning batch no longer needs it
// (rollback completed, or mission finalized).
func (s *snapshotStore) purge(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byRef, ref)
}
