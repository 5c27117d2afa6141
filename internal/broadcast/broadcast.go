// Package broadcast reconciles operator-issued directives with the
// acknowledgments that trickle back from independently-clocked clients.
package broadcast

import (
	"time"

	"github.com/fieldops/gridtrack/pkg/core"
)

// IsTargeted reports whether a broadcast addresses the given agent. An
// empty target list means all agents.
func IsTargeted(b core.Broadcast, agentID string) bool {
	if len(b.TargetAgents) == 0 {
		return true
	}
	for _, id := range b.TargetAgents {
		if id == agentID {
			return true
		}
	}
	return false
}

// IsExpired reports whether the broadcast's auto-expiry window has passed.
// Expiry is always computed on read; stored state never changes when a
// broadcast runs out.
func IsExpired(b core.Broadcast, now time.Time) bool {
	if b.AutoExpire <= 0 {
		return false
	}
	return now.Sub(b.IssuedAt) > b.AutoExpire
}

// IsFullyAcknowledged reports whether every targeted roster member has
// responded.
func IsFullyAcknowledged(b core.Broadcast, roster []string) bool {
	for _, agentID := range roster {
		if !IsTargeted(b, agentID) {
			continue
		}
		if _, ok := core.FindAck(b.Acks, agentID); !ok {
			return false
		}
	}
	return true
}

// PendingAgents returns the roster members that are targeted, still inside
// the expiry window, and have not acknowledged yet. It answers "who still
// owes a response", so broadcasts that never asked for one report nobody
// pending, even when no acks came back. This drives the requires-attention
// view and the overdue re-alerts.
func PendingAgents(b core.Broadcast, roster []string, now time.Time) []string {
	if !b.RequiresAck || IsExpired(b, now) {
		return nil
	}
	var pending []string
	for _, agentID := range roster {
		if !IsTargeted(b, agentID) {
			continue
		}
		if _, ok := core.FindAck(b.Acks, agentID); !ok {
			pending = append(pending, agentID)
		}
	}
	return pending
}
