package mission

// newCheckpoints initializes the four fixed checkpoints in pending status.
// Actor defaults to "both": either a human or an agent may approve in v1
// (there is no RBAC).
func newCheckpoints() map[CheckpointName]*Checkpoint {
	out := make(map[CheckpointName]*Checkpoint, len(checkpointOrder))
	for _, name := range checkpointOrder {
		out[name] = &Checkpoint{Name: name, Status: StatusPending, Actor: ActorBoth}
	}
	return out
}

// approve transitions a checkpoint pending -> approved. The v1 API does not
// enforce that earlier checkpoints completed first; callers record a
// warning on the mission when that happens.
func approve(cp *Checkpoint) error {
	if cp.Status != StatusPending {
		return ErrCheckpointNotPending
	}
	cp.Status = StatusApproved
	return nil
}

// complete marks an approved checkpoint completed, e.g. once its
// associated work (a batch apply, a verify run) has finished.
func complete(cp *Checkpoint) {
	cp.Status = StatusCompleted
}

func reject(cp *Checkpoint) {
	cp.Status = StatusRejected
}
