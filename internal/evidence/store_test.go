package evidence

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/governor/internal/clock"
)

func TestAppend_OrdersEventsMonotonically(t *testing.T) {
	fc := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewStore("", fc)

	_, err := store.Append(EventMissionCreated, "m-1", nil)
	require.NoError(t, err)
	fc.Advance(time.Second)
	_, err = store.Append(EventCheckpointApproved, "m-1", nil)
	require.NoError(t, err)

	events := store.EventsForMission("m-1")
	require.Len(t, events, 2)
	assert.True(t, events[0].Timestamp.Before(events[1].Timestamp) || events[0].Timestamp.Equal(events[1].Timestamp))
	assert.Equal(t, EventMissionCreated, events[0].Type)
	assert.Equal(t, EventCheckpointApproved, events[1].Type)
}

func TestBuildProvenanceGraph_IsSimplePath(t *testing.T) {
	fc := clock.NewFixed(time.Now())
	store := NewStore("", fc)

	store.Append(EventMissionCreated, "m-2", nil)
	fc.Advance(time.Millisecond)
	store.Append(EventBatchExecuted, "m-2", nil)
	fc.Advance(time.Millisecond)
	store.Append(EventRollbackApplied, "m-2", nil)

	events := store.EventsForMission("m-2")
	graph := BuildProvenanceGraph("m-2", events)

	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, graph.Nodes[1].Event.ID, graph.Nodes[0].Next)
	assert.Equal(t, graph.Nodes[2].Event.ID, graph.Nodes[1].Next)
	assert.Empty(t, graph.Nodes[2].Next)
}

func TestBuildArchive_ContainsRequiredEntries(t *testing.T) {
	store := NewStore("", clock.Real{})
	store.Append(EventMissionCreated, "m-3", map[string]interface{}{"title": "demo"})
	events := store.EventsForMission("m-3")
	graph := BuildProvenanceGraph("m-3", events)

	data, err := BuildArchive(ArchiveInputs{
		ChangeSpec: json.RawMessage(`{"id":"CS-1"}`),
		Provenance: graph,
		Events:     events,
		Versions:   VersionsBlock{Governor: "test"},
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["changespec.json"])
	assert.True(t, names["provenance.json"])
	assert.True(t, names["events.json"])
	assert.True(t, names["versions.json"])
}

func TestVerifyAuditPack_FailsWhenAnyItemUnverified(t *testing.T) {
	store := NewStore("", clock.Real{})
	err := store.SavePack(AuditPack{
		ID:        "pack-1",
		MissionID: "m-4",
		Verified:  map[string]bool{"changespec": true, "events": false},
	})
	require.NoError(t, err)

	ok, err := store.VerifyAuditPack("pack-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAuditPack_NotFound(t *testing.T) {
	store := NewStore("", clock.Real{})
	_, err := store.VerifyAuditPack("missing")
	require.ErrorIs(t, err, ErrPackNotFound)
}
