package mission

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/governor/internal/clock"
	"github.com/codeready-toolchain/governor/internal/evidence"
	"github.com/codeready-toolchain/governor/internal/redactor"
	"github.com/codeready-toolchain/governor/internal/transform"
)

// Coordinator is the Mission Coordinator (C5): the mission lifecycle state
// machine, batch reversibility, snapshot/rollback, and the scan-before-
// apply pipeline. Missions, snapshots, and batches are owned here.
type Coordinator struct {
	mu       sync.RWMutex
	missions map[string]*Mission
	batches  map[string]*Batch

	snapshots *snapshotStore
	redactor  *redactor.Service
	engine    *transform.Engine
	evidence  *evidence.Store
	clock     clock.Clock
}

// NewCoordinator wires the three collaborating components the apply
// pipeline needs: a Redactor for scan-before-apply, a Transform Engine for
// the mutation itself, and an Evidence Log for the audit trail.
func NewCoordinator(r *redactor.Service, e *transform.Engine, ev *evidence.Store, c clock.Clock) *Coordinator {
	if c == nil {
		c = clock.Real{}
	}
	return &Coordinator{
		missions:  make(map[string]*Mission),
		batches:   make(map[string]*Batch),
		snapshots: newSnapshotStore(c),
		redactor:  r,
		engine:    e,
		evidence:  ev,
		clock:     c,
	}
}

// CreateMission initializes a mission with all four checkpoints pending
// and emits MissionCreated.
func (c *Coordinator) CreateMission(title string, risk Risk) *Mission {
	now := c.clock.Now()
	m := &Mission{
		MissionID:   "mission-" + uuid.New().String(),
		Title:       title,
		Risk:        risk,
		Checkpoints: newCheckpoints(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	c.mu.Lock()
	c.missions[m.MissionID] = m
	c.mu.Unlock()

	if c.evidence != nil {
		c.evidence.Append(evidence.EventMissionCreated, m.MissionID, map[string]interface{}{
			"title": title,
			"risk":  string(risk),
		})
	}

	return m
}

// GetMission returns a mission by ID.
func (c *Coordinator) GetMission(id string) (*Mission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.missions[id]
	if !ok {
		return nil, ErrMissionNotFound
	}
	return m, nil
}

// ApproveCheckpoint sets a checkpoint's status to approved and emits
// CheckpointApproved. Approving an out-of-order checkpoint is permitted in
// v1 (see state_machine.go's approve doc comment).
func (c *Coordinator) ApproveCheckpoint(missionID string, name CheckpointName) (*Mission, error) {
	c.mu.Lock()
	m, ok := c.missions[missionID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrMissionNotFound
	}
	cp, ok := m.Checkpoints[name]
	if !ok {
		c.mu.Unlock()
		return nil, ErrCheckpointNotFound
	}
	if err := approve(cp); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if earlier := earlierPendingCheckpoint(m, name); earlier != "" {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%s approved before %s", name, earlier))
	}
	m.UpdatedAt = c.clock.Now()
	c.mu.Unlock()

	if c.evidence != nil {
		c.evidence.Append(evidence.EventCheckpointApproved, missionID, map[string]interface{}{
			"checkpoint": string(name),
		})
	}

	return m, nil
}

// CreateBatch appends a new reversible batch to the execute checkpoint and
// emits BatchExecuted. v1 does not require the execute checkpoint to be
// approved first; a warning is recorded on the mission instead.
func (c *Coordinator) CreateBatch(missionID string, paths []string) (*Batch, error) {
	c.mu.Lock()
	m, ok := c.missions[missionID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrMissionNotFound
	}
	execCP, ok := m.Checkpoints[CheckpointExecute]
	if !ok {
		c.mu.Unlock()
		return nil, ErrCheckpointNotFound
	}

	if planCP := m.Checkpoints[CheckpointPlan]; planCP != nil && planCP.Status == StatusPending {
		m.Warnings = append(m.Warnings, "batch created before plan approval")
	}

	batch := &Batch{
		ID:          "batch-" + uuid.New().String(),
		MissionID:   missionID,
		Reversible:  true,
		Paths:       paths,
		SnapshotRef: "",
		Status:      BatchPending,
		UpdatedAt:   c.clock.Now(),
	}
	c.batches[batch.ID] = batch
	execCP.Batches = append(execCP.Batches, batch.ID)
	m.UpdatedAt = c.clock.Now()
	c.mu.Unlock()

	if c.evidence != nil {
		c.evidence.Append(evidence.EventBatchExecuted, missionID, map[string]interface{}{
			"batchId": batch.ID,
			"paths":   paths,
		})
	}

	return batch, nil
}

// GetBatch returns a batch by ID.
func (c *Coordinator) GetBatch(batchID string) (*Batch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.batches[batchID]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return b, nil
}

// ApplyBatch is applyCheckpoint's pipeline: (1) scan every affected input
// via the Redactor — any critical finding aborts with a SecurityBlock
// before any file is touched; (2) snapshot the pre-image; (3) dispatch to
// the Transform Engine; (4) on failure, restore the snapshot and mark the
// batch FAILED; (5) on success, mark APPLIED and record an audit entry
// with the scan results attached as evidence.
func (c *Coordinator) ApplyBatch(ctx context.Context, missionID, batchID string, spec transform.ChangeSpec, workdir string, inputContents map[string]string) (transform.ApplyResult, error) {
	batch, err := c.GetBatch(batchID)
	if err != nil {
		return transform.ApplyResult{}, err
	}

	var scanResults []*redactor.ScanResult
	for path, content := range inputContents {
		result, err := c.redactor.Scan(content, path)
		if err != nil {
			c.rejectForSecurity(missionID, batchID, path, err)
			return transform.ApplyResult{}, err
		}
		scanResults = append(scanResults, result)

		for _, f := range result.Findings {
			if f.Severity == redactor.SeverityCritical {
				blockErr := &SecurityBlockError{File: path, Message: f.Message}
				c.rejectForSecurity(missionID, batchID, path, blockErr)
				return transform.ApplyResult{}, blockErr
			}
		}
	}

	paths := sortedKeys(inputContents)
	snap, err := c.snapshots.take(workdir, batch.ID, paths)
	if err != nil {
		return transform.ApplyResult{}, fmt.Errorf("snapshot before apply: %w", err)
	}
	batch.SnapshotRef = batch.ID
	batch.Workdir = workdir

	result := c.engine.Apply(spec, workdir)

	if !result.Success {
		if restoreErr := c.snapshots.restore(workdir, snap); restoreErr != nil {
			result.Errors = append(result.Errors, "rollback after failed apply: "+restoreErr.Error())
		}
		c.setBatchStatus(batchID, BatchFailed)
		return result, nil
	}

	c.setBatchStatus(batchID, BatchApplied)

	if c.evidence != nil {
		c.evidence.Append(evidence.EventBatchExecuted, missionID, map[string]interface{}{
			"batchId":       batchID,
			"filesModified": result.FilesModified,
			"scanFindings":  countFindings(scanResults),
		})
	}

	_ = ctx // reserved for cancellation propagation into the Transform Engine call above
	return result, nil
}

// RollbackBatch restores a batch's snapshot verbatim and marks it
// RolledBack, emitting RollbackApplied.
func (c *Coordinator) RollbackBatch(missionID, batchID, workdir string) (bool, error) {
	batch, err := c.GetBatch(batchID)
	if err != nil {
		return false, err
	}
	if batch.MissionID != missionID {
		return false, ErrBatchNotFound
	}

	snap, ok := c.snapshots.get(batch.SnapshotRef)
	if !ok {
		return false, fmt.Errorf("rollback %s: %w", batchID, ErrBatchNotFound)
	}

	if err := c.snapshots.restore(workdir, snap); err != nil {
		return false, fmt.Errorf("rollback %s: %w", batchID, err)
	}

	c.setBatchStatus(batchID, BatchRolledBack)
	c.snapshots.purge(batch.SnapshotRef)

	if c.evidence != nil {
		c.evidence.Append(evidence.EventRollbackApplied, missionID, map[string]interface{}{
			"batchId": batchID,
		})
	}

	return true, nil
}

// CompleteCheckpoint marks a checkpoint completed once its associated work
// has finished (a batch apply, a verify run, an audit pack export).
func (c *Coordinator) CompleteCheckpoint(missionID string, name CheckpointName) (*Mission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.missions[missionID]
	if !ok {
		return nil, ErrMissionNotFound
	}
	cp, ok := m.Checkpoints[name]
	if !ok {
		return nil, ErrCheckpointNotFound
	}
	complete(cp)
	m.UpdatedAt = c.clock.Now()
	return m, nil
}

// RecordVerifyMetrics stores a verify run's metrics on the verify
// checkpoint and marks it completed.
func (c *Coordinator) RecordVerifyMetrics(missionID string, metrics map[string]interface{}) (*Mission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.missions[missionID]
	if !ok {
		return nil, ErrMissionNotFound
	}
	cp, ok := m.Checkpoints[CheckpointVerify]
	if !ok {
		return nil, ErrCheckpointNotFound
	}
	cp.Metrics = metrics
	complete(cp)
	m.UpdatedAt = c.clock.Now()
	return m, nil
}

// AttachAuditPack records the generated audit pack's reference on the
// finalize checkpoint, marks it completed, and purges the mission's batch
// snapshots — a finalized mission's pre-images are no longer needed.
func (c *Coordinator) AttachAuditPack(missionID, packRef string) (*Mission, error) {
	c.mu.Lock()
	m, ok := c.missions[missionID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrMissionNotFound
	}
	cp, ok := m.Checkpoints[CheckpointFinalize]
	if !ok {
		c.mu.Unlock()
		return nil, ErrCheckpointNotFound
	}
	cp.AuditPackRef = packRef
	complete(cp)
	m.UpdatedAt = c.clock.Now()

	var refs []string
	for _, b := range c.batches {
		if b.MissionID == missionID && b.SnapshotRef != "" {
			refs = append(refs, b.SnapshotRef)
		}
	}
	c.mu.Unlock()

	for _, ref := range refs {
		c.snapshots.purge(ref)
	}
	return m, nil
}

func (c *Coordinator) setBatchStatus(batchID string, status BatchStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.batches[batchID]; ok {
		b.Status = status
		b.UpdatedAt = c.clock.Now()
	}
}

// stuckBatches returns every batch still Pending or Applied whose
// UpdatedAt is older than threshold — candidates for the sweeper to
// recover. Mirrors the orphan-detection pattern: a periodic scan over an
// in-memory map rather than a database query.
func (c *Coordinator) stuckBatches(olderThan time.Time) []*Batch {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Batch
	for _, b := range c.batches {
		if (b.Status == BatchPending || b.Status == BatchApplied) && b.UpdatedAt.Before(olderThan) {
			out = append(out, b)
		}
	}
	return out
}

func (c *Coordinator) rejectForSecurity(missionID, batchID, path string, cause error) {
	c.setBatchStatus(batchID, BatchFailed)
	c.mu.Lock()
	if m, ok := c.missions[missionID]; ok {
		if cp, ok := m.Checkpoints[CheckpointExecute]; ok {
			reject(cp)
			m.UpdatedAt = c.clock.Now()
		}
	}
	c.mu.Unlock()
	if c.evidence != nil {
		c.evidence.Append(evidence.EventCheckpointRejected, missionID, map[string]interface{}{
			"batchId": batchID,
			"file":    path,
			"reason":  cause.Error(),
		})
	}
}

// recoverStuckBatch rolls back a batch the sweeper found stuck: restore
// its snapshot (if one was taken), purge it, and mark the batch failed.
// A batch stuck before its snapshot was captured has nothing to restore.
func (c *Coordinator) recoverStuckBatch(b *Batch) {
	if b.SnapshotRef != "" && b.Workdir != "" {
		if snap, ok := c.snapshots.get(b.SnapshotRef); ok {
			if err := c.snapshots.restore(b.Workdir, snap); err != nil {
				slog.Error("mission: failed to restore snapshot for stuck batch",
					"batch_id", b.ID, "error", err)
			} else {
				c.snapshots.purge(b.SnapshotRef)
				if c.evidence != nil {
					c.evidence.Append(evidence.EventRollbackApplied, b.MissionID, map[string]interface{}{
						"batchId": b.ID,
						"reason":  "stale batch recovery",
					})
				}
			}
		}
	}
	c.setBatchStatus(b.ID, BatchFailed)
}

// Stats reports mission and batch counts for the health endpoint.
func (c *Coordinator) Stats() (missions int, batchesByStatus map[BatchStatus]int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	batchesByStatus = make(map[BatchStatus]int)
	for _, b := range c.batches {
		batchesByStatus[b.Status]++
	}
	return len(c.missions), batchesByStatus
}

// earlierPendingCheckpoint returns the name of the first checkpoint before
// name in canonical order that is still pending, or "" if none.
func earlierPendingCheckpoint(m *Mission, name CheckpointName) CheckpointName {
	for _, n := range checkpointOrder {
		if n == name {
			return ""
		}
		if cp, ok := m.Checkpoints[n]; ok && cp.Status == StatusPending {
			return n
		}
	}
	return ""
}

func countFindings(results []*redactor.ScanResult) int {
	total := 0
	for _, r := range results {
		total += len(r.Findings)
	}
	return total
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
