package evidence

// BuildProvenanceGraph derives a mission's provenance graph: events filtered
// by missionId, sorted by timestamp (ties broken by insertion order, which
// EventsForMission already guarantees), linked into a chain where each
// node's successor becomes its out-edge target. Strictly a simple path in
// v1 — no cycles, no DAG fan-out.
func BuildProvenanceGraph(missionID string, events []Event) ProvenanceGraph {
	nodes := make([]Node, len(events))
	for i, e := range events {
		nodes[i] = Node{Event: e}
		if i+1 < len(events) {
			nodes[i].Next = events[i+1].ID
		}
	}
	return ProvenanceGraph{MissionID: missionID, Nodes: nodes}
}
