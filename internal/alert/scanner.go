package alert

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/internal/broadcast"
	"github.com/fieldops/gridtrack/internal/scheduler"
	"github.com/fieldops/gridtrack/pkg/core"
)

// BroadcastSource is the slice of broadcast store the scanner reads.
type BroadcastSource interface {
	List() []core.Broadcast
}

// RosterSource yields the agent ids currently known to the tracker.
type RosterSource interface {
	Roster() []string
}

// Scanner periodically rescans the broadcast set for directives whose
// acknowledgments are overdue. An overdue broadcast re-alerts on every
// rescan tick until it is acknowledged or expires; the nagging is the
// point.
type Scanner struct {
	broadcasts   BroadcastSource
	roster       RosterSource
	notifier     Notifier
	overdueAfter time.Duration
	logger       zerolog.Logger
	now          func() time.Time

	task *scheduler.Task
}

// NewScanner creates a Scanner.
func NewScanner(broadcasts BroadcastSource, roster RosterSource, notifier Notifier, overdueAfter time.Duration, logger zerolog.Logger) *Scanner {
	return &Scanner{
		broadcasts:   broadcasts,
		roster:       roster,
		notifier:     notifier,
		overdueAfter: overdueAfter,
		logger:       logger.With().Str("component", "overdue-scan").Logger(),
		now:          time.Now,
	}
}

// Scan runs one pass over the broadcast set now.
func (s *Scanner) Scan() error {
	now := s.now()
	roster := s.roster.Roster()

	for _, b := range s.broadcasts.List() {
		pending := broadcast.PendingAgents(b, roster, now)
		if len(pending) > 0 && Overdue(b, s.overdueAfter, now) {
			s.notifier.NotifyOverdue(b, pending)
		}
	}
	return nil
}

// Start launches the rescan loop.
func (s *Scanner) Start(every time.Duration) {
	s.task = scheduler.Interval(s.logger, "overdue-scan", every, s.Scan)
}

// Stop cancels the rescan loop.
func (s *Scanner) Stop() {
	if s.task != nil {
		s.task.Stop()
	}
}
