// pkg/core/broadcast.go
package core

import "time"

// AckResponse is the kind of reply an agent gave.
type AckResponse string

const (
	ResponseAcknowledged AckResponse = "acknowledged"
	ResponseUnable       AckResponse = "unable"
	ResponseNoted        AckResponse = "noted"
)

// NormalizeAckResponse maps wire-format aliases onto the canonical enum.
// "negative" is accepted from older clients as a synonym for "noted".
func NormalizeAckResponse(s string) (AckResponse, bool) {
	switch AckResponse(s) {
	case ResponseAcknowledged, ResponseUnable, ResponseNoted:
		return AckResponse(s), true
	}
	if s == "negative" {
		return ResponseNoted, true
	}
	return "", false
}

// Acknowledgment is a per-agent response to a broadcast or annotation.
// At most one acknowledgment exists per (TargetID, AgentID) pair; a newer
// one from the same agent replaces the prior one.
type Acknowledgment struct {
	TargetID        string      `json:"targetId"`
	AgentID         string      `json:"agentId"`
	AgentCallsign   string      `json:"agentCallsign"`
	AcknowledgedAt  time.Time   `json:"acknowledgedAt"`
	Response        AckResponse `json:"response"`
	ResponseMessage string      `json:"responseMessage,omitempty"`
}

// Validate checks an acknowledgment before it is applied.
func (a Acknowledgment) Validate() error {
	if a.TargetID == "" {
		return &ValidationError{Field: "targetId", Reason: "must not be empty"}
	}
	if a.AgentID == "" {
		return &ValidationError{Field: "agentId", Reason: "must not be empty"}
	}
	if _, ok := NormalizeAckResponse(string(a.Response)); !ok {
		return &ValidationError{Field: "response", Reason: "unknown response " + string(a.Response)}
	}
	return nil
}

// Broadcast is an operator-issued directive distributed to some or all
// agents. Expiry is derived from IssuedAt+AutoExpire on read and never
// written back into the record.
type Broadcast struct {
	ID           string           `json:"id"`
	Message      string           `json:"message"`
	Priority     string           `json:"priority,omitempty"`
	IssuedBy     string           `json:"issuedBy"`
	IssuedAt     time.Time        `json:"issuedAt"`
	TargetAgents []string         `json:"targetAgents"` // empty = all agents
	RequiresAck  bool             `json:"requiresAck"`
	AutoExpire   time.Duration    `json:"autoExpireMs"` // 0 = never expires
	Acks         []Acknowledgment `json:"acknowledgments"`
}
