package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ExportAuditPack assembles the portable audit pack for a mission: the
// submitted ChangeSpec, the derived provenance graph, and the raw event
// list, plus whatever aggregated evidence the caller supplies. The archive
// is staged in a unique temp directory that is removed once the bytes are
// delivered, even on failure. The pack's metadata is persisted and an
// AuditPackGenerated event is appended to the mission's chain.
func (s *Store) ExportAuditPack(missionID string, changeSpec json.RawMessage, extra ArchiveInputs, versions VersionsBlock) (AuditPack, []byte, error) {
	events := s.EventsForMission(missionID)
	graph := BuildProvenanceGraph(missionID, events)

	inputs := extra
	inputs.ChangeSpec = changeSpec
	inputs.Provenance = graph
	inputs.Events = events
	inputs.Versions = versions

	archive, err := BuildArchive(inputs)
	if err != nil {
		return AuditPack{}, nil, fmt.Errorf("assemble audit pack for %s: %w", missionID, err)
	}

	tmpDir, err := os.MkdirTemp("", "auditpack-*")
	if err != nil {
		return AuditPack{}, nil, fmt.Errorf("stage audit pack: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	staged := filepath.Join(tmpDir, "pack.zip")
	if err := os.WriteFile(staged, archive, 0o644); err != nil {
		return AuditPack{}, nil, fmt.Errorf("stage audit pack: %w", err)
	}
	delivered, err := os.ReadFile(staged)
	if err != nil {
		return AuditPack{}, nil, fmt.Errorf("read staged audit pack: %w", err)
	}

	pack := AuditPack{
		ID:          uuid.New().String(),
		MissionID:   missionID,
		GeneratedAt: s.clock.Now(),
		Versions:    versions,
		Verified: map[string]bool{
			"changespec": true,
			"provenance": true,
			"events":     true,
		},
	}
	if err := s.SavePack(pack); err != nil {
		return AuditPack{}, nil, err
	}

	if _, err := s.Append(EventAuditPackGenerated, missionID, map[string]interface{}{
		"packId": pack.ID,
		"bytes":  len(delivered),
	}); err != nil {
		return AuditPack{}, nil, err
	}

	return pack, delivered, nil
}
