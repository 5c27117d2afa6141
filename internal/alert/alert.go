// Package alert turns store state into operator notifications: new
// broadcasts, zone violations, and directives whose acknowledgments are
// overdue.
package alert

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/internal/annotation"
	"github.com/fieldops/gridtrack/pkg/core"
)

// Notifier receives operator-facing alerts.
type Notifier interface {
	NotifyBroadcast(b core.Broadcast)
	NotifyViolation(v annotation.Violation)
	NotifyOverdue(b core.Broadcast, pending []string)
}

// LogNotifier writes alerts to the session log. It is the default sink
// when no UI surface is attached.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alert").Logger()}
}

// NotifyBroadcast logs a newly arrived directive.
func (n *LogNotifier) NotifyBroadcast(b core.Broadcast) {
	n.logger.Info().
		Str("broadcastId", b.ID).
		Str("issuedBy", b.IssuedBy).
		Str("priority", b.Priority).
		Bool("requiresAck", b.RequiresAck).
		Msg("broadcast received: " + b.Message)
}

// NotifyViolation logs a zone violation.
func (n *LogNotifier) NotifyViolation(v annotation.Violation) {
	n.logger.Warn().
		Str("assetId", v.AssetID).
		Str("callsign", v.Callsign).
		Str("annotationId", v.AnnotationID).
		Str("zone", v.Label).
		Time("at", v.At).
		Msg("restricted zone violation")
}

// NotifyOverdue logs a directive still waiting on acknowledgments past
// the overdue window.
func (n *LogNotifier) NotifyOverdue(b core.Broadcast, pending []string) {
	n.logger.Warn().
		Str("broadcastId", b.ID).
		Str("pendingAgents", strings.Join(pending, ",")).
		Time("issuedAt", b.IssuedAt).
		Msg("broadcast acknowledgment overdue")
}

// MultiNotifier fans one alert out to several sinks.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyBroadcast(b core.Broadcast) {
	for _, n := range m {
		n.NotifyBroadcast(b)
	}
}

func (m MultiNotifier) NotifyViolation(v annotation.Violation) {
	for _, n := range m {
		n.NotifyViolation(v)
	}
}

func (m MultiNotifier) NotifyOverdue(b core.Broadcast, pending []string) {
	for _, n := range m {
		n.NotifyOverdue(b, pending)
	}
}

// Overdue reports whether a broadcast has been waiting on acknowledgments
// longer than the configured window.
func Overdue(b core.Broadcast, overdueAfter time.Duration, now time.Time) bool {
	return b.RequiresAck && now.Sub(b.IssuedAt) > overdueAfter
}
