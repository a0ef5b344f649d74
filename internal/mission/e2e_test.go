package mission

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/governor/internal/evidence"
	"github.com/codeready-toolchain/governor/internal/transform"
)

// Full mission lifecycle: plan approval, batch apply, verify with metrics,
// audit pack export attached to the finalize checkpoint. Exercises the
// whole plan/execute/verify/finalize flow through one coordinator.
func TestMissionLifecycle_PlanThroughFinalize(t *testing.T) {
	coord, ev := newTestCoordinator()
	dir := t.TempDir()

	src := "user.ts"
	original := "export type UserId = string;\nconst u: UserId = '1';\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, src), []byte(original), 0o644))

	m := coord.CreateMission("rename UserId", RiskMedium)

	_, err := coord.ApproveCheckpoint(m.MissionID, CheckpointPlan)
	require.NoError(t, err)
	_, err = coord.CompleteCheckpoint(m.MissionID, CheckpointPlan)
	require.NoError(t, err)

	_, err = coord.ApproveCheckpoint(m.MissionID, CheckpointExecute)
	require.NoError(t, err)

	batch, err := coord.CreateBatch(m.MissionID, []string{src})
	require.NoError(t, err)

	spec := transform.ChangeSpec{
		ID:       "CS-100",
		Intent:   "rename UserId to AccountId",
		Scope:    []string{src},
		Language: transform.LangTypeScript,
		Patches: []transform.Patch{{
			Path:     src,
			AstOp:    transform.OpRenameSymbol,
			Selector: "Identifier[name='UserId']",
			Details:  transform.PatchDetails{NewName: "AccountId"},
		}},
		Tests: transform.TestPlan{Strategy: transform.StrategyAugment, MutationThreshold: 0.5},
	}
	contents := map[string]string{src: original}

	result, err := coord.ApplyBatch(context.Background(), m.MissionID, batch.ID, spec, dir, contents)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, []string{src}, result.FilesModified)

	mutated, err := os.ReadFile(filepath.Join(dir, src))
	require.NoError(t, err)
	assert.Contains(t, string(mutated), "AccountId")

	_, err = coord.ApproveCheckpoint(m.MissionID, CheckpointVerify)
	require.NoError(t, err)
	_, err = coord.RecordVerifyMetrics(m.MissionID, map[string]interface{}{
		"invariantsPassed": 1,
		"mutationScore":    0.5,
	})
	require.NoError(t, err)

	_, err = coord.ApproveCheckpoint(m.MissionID, CheckpointFinalize)
	require.NoError(t, err)

	specJSON, err := json.Marshal(spec)
	require.NoError(t, err)
	pack, archive, err := ev.ExportAuditPack(m.MissionID, specJSON, evidence.ArchiveInputs{}, evidence.VersionsBlock{Governor: "test"})
	require.NoError(t, err)
	require.NotEmpty(t, archive)

	final, err := coord.AttachAuditPack(m.MissionID, pack.ID)
	require.NoError(t, err)

	finalize := final.Checkpoints[CheckpointFinalize]
	assert.Equal(t, StatusCompleted, finalize.Status)
	assert.Equal(t, pack.ID, finalize.AuditPackRef)

	verify := final.Checkpoints[CheckpointVerify]
	assert.Equal(t, StatusCompleted, verify.Status)
	assert.Equal(t, 0.5, verify.Metrics["mutationScore"])

	// Snapshot is purged once the mission finalizes.
	_, ok := coord.snapshots.get(batch.SnapshotRef)
	assert.False(t, ok)

	// Event chain covers the whole lifecycle in order.
	events := ev.EventsForMission(m.MissionID)
	var types []evidence.EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, evidence.EventMissionCreated, types[0])
	assert.Contains(t, types, evidence.EventBatchExecuted)
	assert.Equal(t, evidence.EventAuditPackGenerated, types[len(types)-1])
}

func TestApproveCheckpoint_OutOfOrderRecordsWarning(t *testing.T) {
	coord, _ := newTestCoordinator()
	m := coord.CreateMission("demo", RiskLow)

	got, err := coord.ApproveCheckpoint(m.MissionID, CheckpointVerify)
	require.NoError(t, err)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "verify approved before plan")
}

func TestCreateBatch_BeforePlanApprovalRecordsWarning(t *testing.T) {
	coord, _ := newTestCoordinator()
	m := coord.CreateMission("demo", RiskLow)

	_, err := coord.CreateBatch(m.MissionID, nil)
	require.NoError(t, err)

	got, err := coord.GetMission(m.MissionID)
	require.NoError(t, err)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "batch created before plan approval")
}

func TestApproveCheckpoint_InOrderHasNoWarnings(t *testing.T) {
	coord, _ := newTestCoordinator()
	m := coord.CreateMission("demo", RiskLow)

	_, err := coord.ApproveCheckpoint(m.MissionID, CheckpointPlan)
	require.NoError(t, err)

	got, err := coord.GetMission(m.MissionID)
	require.NoError(t, err)
	assert.Empty(t, got.Warnings)
}
