// Package scheduler provides the polling primitive: a named interval task
// with a cancel handle and guaranteed non-overlapping execution. A tick
// that fires while the previous run is still in flight is skipped, never
// queued behind it.
package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Task is a running interval task.
type Task struct {
	name   string
	every  time.Duration
	fn     func() error
	logger zerolog.Logger

	busy     atomic.Bool
	runs     atomic.Int64
	skips    atomic.Int64
	failures atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Interval starts a task that runs fn every interval. The first run
// happens after one interval, not immediately. A run that returns an error
// or panics is logged and counted; the next tick still fires.
func Interval(logger zerolog.Logger, name string, every time.Duration, fn func() error) *Task {
	t := &Task{
		name:   name,
		every:  every,
		fn:     fn,
		logger: logger.With().Str("task", name).Logger(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				t.TryRun()
			}
		}
	}()

	return t
}

// TryRun executes the task body now unless a run is already in flight, in
// which case it is skipped. Safe to call from outside the timer loop for
// an immediate poll.
func (t *Task) TryRun() bool {
	if !t.busy.CompareAndSwap(false, true) {
		t.skips.Add(1)
		t.logger.Debug().Msg("tick skipped, previous run still in flight")
		return false
	}
	defer t.busy.Store(false)

	t.runs.Add(1)
	start := time.Now()
	if err := t.run(); err != nil {
		t.failures.Add(1)
		t.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("task run failed")
	}
	return true
}

// run isolates panics so a bad tick cannot kill the timer loop.
func (t *Task) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.fn()
}

// Stop cancels the task. It does not interrupt a run already in flight.
// Safe to call more than once.
func (t *Task) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Stats reports run, skip, and failure counts.
func (t *Task) Stats() (runs, skips, failures int64) {
	return t.runs.Load(), t.skips.Load(), t.failures.Load()
}
