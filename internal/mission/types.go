// Package mission implements the Mission Coordinator: the mission
// lifecycle state machine, batch reversibility, snapshot/rollback, and the
// scan-before-apply pipeline that ties the Redactor and Transform Engine
// together under one audited operation.
package mission

import "time"

// CheckpointName is one of the four fixed stages of a mission.
type CheckpointName string

const (
	CheckpointPlan     CheckpointName = "plan"
	CheckpointExecute  CheckpointName = "execute"
	CheckpointVerify   CheckpointName = "verify"
	CheckpointFinalize CheckpointName = "finalize"
)

// checkpointOrder is the canonical ordering of the four checkpoints, used
// only to initialize a mission — v1 does not enforce approval order (see
// Coordinator.ApproveCheckpoint).
var checkpointOrder = []CheckpointName{CheckpointPlan, CheckpointExecute, CheckpointVerify, CheckpointFinalize}

// CheckpointStatus is a checkpoint's place in the plan/execute/verify/
// finalize lifecycle.
type CheckpointStatus string

const (
	StatusPending   CheckpointStatus = "pending"
	StatusApproved  CheckpointStatus = "approved"
	StatusRejected  CheckpointStatus = "rejected"
	StatusCompleted CheckpointStatus = "completed"
)

// Actor identifies who is expected to act on a checkpoint.
type Actor string

const (
	ActorHuman Actor = "human"
	ActorAgent Actor = "agent"
	ActorBoth  Actor = "both"
)

// Checkpoint is one gate in a mission's four-stage workflow.
type Checkpoint struct {
	Name   CheckpointName   `json:"name"`
	Status CheckpointStatus `json:"status"`
	Actor  Actor            `json:"actor"`

	// Artifacts is populated on the plan checkpoint.
	Artifacts []string `json:"artifacts,omitempty"`
	// Batches is populated on the execute checkpoint.
	Batches []string `json:"batches,omitempty"`
	// Metrics is populated on the verify checkpoint.
	Metrics map[string]interface{} `json:"metrics,omitempty"`
	// AuditPackRef is populated on the finalize checkpoint.
	AuditPackRef string `json:"auditPackRef,omitempty"`
}

// Risk mirrors transform.Risk at the mission boundary to avoid a hard
// package dependency from mission to transform for this one small enum.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Mission is an end-to-end change workflow instance.
type Mission struct {
	MissionID   string                         `json:"missionId"`
	Title       string                         `json:"title"`
	Risk        Risk                           `json:"risk"`
	Checkpoints map[CheckpointName]*Checkpoint `json:"checkpoints"`
	CreatedAt   time.Time                      `json:"createdAt"`
	UpdatedAt   time.Time                      `json:"updatedAt"`

	// Warnings records conditions the v1 API permits but that are likely
	// unintended, e.g. approving checkpoints out of order or creating
	// batches before plan approval. The operations still succeed; the
	// warning makes the condition visible.
	Warnings []string `json:"warnings,omitempty"`
}

// BatchStatus tracks a batch's own execution lifecycle, orthogonal to the
// four-checkpoint mission workflow.
type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchApplied    BatchStatus = "applied"
	BatchVerified   BatchStatus = "verified"
	BatchFailed     BatchStatus = "failed"
	BatchRolledBack BatchStatus = "rolled_back"
)

// Batch is a reversible unit of applied work within the execute checkpoint.
type Batch struct {
	ID          string      `json:"id"`
	MissionID   string      `json:"missionId"`
	Reversible  bool        `json:"reversible"`
	Paths       []string    `json:"prs"`
	SnapshotRef string      `json:"snapshotRef"`
	Status      BatchStatus `json:"status"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// Workdir records where the batch's apply ran, so a later rollback
	// (caller-requested or sweeper-initiated) knows where to restore the
	// snapshot. Set when the snapshot is taken.
	Workdir string `json:"workdir,omitempty"`
}

// Snapshot is the pre-image of a batch's affected files.
type Snapshot struct {
	CheckpointOrBatchID string            `json:"checkpointOrBatchId"`
	Files               map[string]string `json:"files"`
	Timestamp           time.Time         `json:"timestamp"`
}
