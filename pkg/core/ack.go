// pkg/core/ack.go
package core

// ReplaceAck applies the dedup invariant shared by annotations and
// broadcasts: at most one acknowledgment per agent. A new acknowledgment
// from an agent that already responded replaces the prior entry in place;
// ordering of the other entries is preserved. The input slice is never
// mutated, so stores can hand out snapshots safely.
//
// Last write wins by local application order, not by the embedded
// timestamp: independently-clocked clients make timestamps unsafe to order
// by.
func ReplaceAck(acks []Acknowledgment, ack Acknowledgment) []Acknowledgment {
	out := make([]Acknowledgment, len(acks), len(acks)+1)
	copy(out, acks)
	for i := range out {
		if out[i].AgentID == ack.AgentID {
			out[i] = ack
			return out
		}
	}
	return append(out, ack)
}

// FindAck returns the acknowledgment from the given agent, if any.
func FindAck(acks []Acknowledgment, agentID string) (Acknowledgment, bool) {
	for _, a := range acks {
		if a.AgentID == agentID {
			return a, true
		}
	}
	return Acknowledgment{}, false
}
