package sync

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/internal/dispatcher"
	"github.com/fieldops/gridtrack/internal/queue"
	"github.com/fieldops/gridtrack/internal/scheduler"
	"github.com/fieldops/gridtrack/pkg/core"
)

// PerfRecorder receives poll timings. Implementations must not block.
type PerfRecorder interface {
	RecordPoll(name string, elapsed time.Duration, failed bool)
}

// Poller drives the two poll loops against the collaborator and feeds
// results into the dispatcher. Remote state never touches the stores
// directly; everything goes through a dispatched command.
type Poller struct {
	client *Client
	disp   *dispatcher.Dispatcher
	logger zerolog.Logger
	perf   PerfRecorder

	acks *queue.Queue[core.Acknowledgment]

	broadcastTask *scheduler.Task
	telemetryTask *scheduler.Task

	consecutiveFailures atomic.Int64
}

// NewPoller creates a Poller. perf may be nil.
func NewPoller(client *Client, disp *dispatcher.Dispatcher, logger zerolog.Logger, perf PerfRecorder) *Poller {
	return &Poller{
		client: client,
		disp:   disp,
		logger: logger.With().Str("component", "sync").Logger(),
		perf:   perf,
		acks:   queue.New[core.Acknowledgment](),
	}
}

// EnqueueAck queues a local acknowledgment for delivery on the next
// broadcast poll tick.
func (p *Poller) EnqueueAck(ack core.Acknowledgment) {
	p.acks.Push(ack)
}

// Start launches the poll loops. Ticks that land while the previous run
// is still in flight are skipped.
func (p *Poller) Start(broadcastEvery, telemetryEvery time.Duration) {
	p.broadcastTask = scheduler.Interval(p.logger, "broadcast-poll", broadcastEvery, p.pollBroadcasts)
	p.telemetryTask = scheduler.Interval(p.logger, "telemetry-poll", telemetryEvery, p.pollTelemetry)
	p.logger.Info().
		Dur("broadcastEvery", broadcastEvery).
		Dur("telemetryEvery", telemetryEvery).
		Msg("sync pollers started")
}

// Stop cancels both loops and waits for in-flight runs to finish.
func (p *Poller) Stop() {
	if p.broadcastTask != nil {
		p.broadcastTask.Stop()
	}
	if p.telemetryTask != nil {
		p.telemetryTask.Stop()
	}
	p.logger.Info().Msg("sync pollers stopped")
}

// ConsecutiveFailures reports how many poll runs in a row have failed.
// Resets to zero on any success.
func (p *Poller) ConsecutiveFailures() int64 {
	return p.consecutiveFailures.Load()
}

// PendingAcks reports how many acknowledgments await delivery.
func (p *Poller) PendingAcks() int {
	return p.acks.Len()
}

// pollBroadcasts pushes queued acknowledgments, then fetches the remote
// broadcast set and dispatches it for reconciliation.
func (p *Poller) pollBroadcasts() error {
	start := time.Now()
	err := p.runBroadcastPoll()
	p.record("broadcast-poll", time.Since(start), err)
	return err
}

func (p *Poller) runBroadcastPoll() error {
	pending := p.acks.GetAndEmpty()
	for i, ack := range pending {
		if err := p.client.PushAcknowledgment(ack); err != nil {
			// undelivered acks go back to the front for the next tick
			p.acks.Requeue(pending[i:]...)
			return fmt.Errorf("pushing acknowledgment for %s: %w", ack.TargetID, err)
		}
	}

	remote, err := p.client.FetchBroadcasts()
	if err != nil {
		return err
	}

	if _, err := p.disp.Dispatch(dispatcher.Event{
		Command:   dispatcher.CmdBroadcastMerge,
		Payload:   remote,
		Timestamp: time.Now(),
	}); err != nil {
		return fmt.Errorf("dispatching broadcast merge: %w", err)
	}
	return nil
}

// pollTelemetry fetches pending position reports and dispatches them.
func (p *Poller) pollTelemetry() error {
	start := time.Now()
	err := p.runTelemetryPoll()
	p.record("telemetry-poll", time.Since(start), err)
	return err
}

func (p *Poller) runTelemetryPoll() error {
	reports, err := p.client.FetchTelemetry()
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return nil
	}

	if _, err := p.disp.Dispatch(dispatcher.Event{
		Command:   dispatcher.CmdTelemetry,
		Payload:   reports,
		Timestamp: time.Now(),
	}); err != nil {
		return fmt.Errorf("dispatching telemetry: %w", err)
	}
	return nil
}

func (p *Poller) record(name string, elapsed time.Duration, err error) {
	if err != nil {
		n := p.consecutiveFailures.Add(1)
		p.logger.Warn().Err(err).Int64("consecutiveFailures", n).Msg("sync poll failed")
	} else {
		p.consecutiveFailures.Store(0)
	}
	if p.perf != nil {
		p.perf.RecordPoll(name, elapsed, err != nil)
	}
}
