// Package monitor periodically samples the running session and writes a
// status snapshot to disk and the log.
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AssetCounter reports tracked asset and lane counts.
type AssetCounter interface {
	Len() int
	LaneCount() int
}

// StoreCounter reports the number of items held by a store.
type StoreCounter interface {
	Len() int
}

// SyncStatus reports the health of the poll loops.
type SyncStatus interface {
	ConsecutiveFailures() int64
	PendingAcks() int
}

// Dependencies holds everything the monitor samples.
type Dependencies struct {
	Tracker     AssetCounter
	Annotations StoreCounter
	Broadcasts  StoreCounter
	Sync        SyncStatus
	StatusDir   string
	Logger      zerolog.Logger
}

// Status is one snapshot of the session counters.
type Status struct {
	Time                time.Time `json:"time"`
	Assets              int       `json:"assets"`
	Lanes               int       `json:"lanes"`
	Annotations         int       `json:"annotations"`
	Broadcasts          int       `json:"broadcasts"`
	PendingAcks         int       `json:"pendingAcks"`
	ConsecutiveFailures int64     `json:"consecutiveSyncFailures"`
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus samples the current counters.
func (s *Service) GetStatus() Status {
	st := Status{Time: time.Now()}
	if s.deps.Tracker != nil {
		st.Assets = s.deps.Tracker.Len()
		st.Lanes = s.deps.Tracker.LaneCount()
	}
	if s.deps.Annotations != nil {
		st.Annotations = s.deps.Annotations.Len()
	}
	if s.deps.Broadcasts != nil {
		st.Broadcasts = s.deps.Broadcasts.Len()
	}
	if s.deps.Sync != nil {
		st.PendingAcks = s.deps.Sync.PendingAcks()
		st.ConsecutiveFailures = s.deps.Sync.ConsecutiveFailures()
	}
	return st
}

// Start starts the status monitor goroutine.
func (s *Service) Start(every time.Duration) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.Logger.With().Str("component", "monitor").Logger()
		logger.Debug().Msg("Starting status monitor goroutine")

		statusFile, err := os.Create(filepath.Join(s.deps.StatusDir, "status.txt"))
		if err != nil {
			logger.Error().Err(err).Msg("Error creating status file")
		}
		defer func() {
			if statusFile != nil {
				statusFile.Close()
			}
		}()

		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				status := s.GetStatus()

				logger.Info().
					Int("assets", status.Assets).
					Int("lanes", status.Lanes).
					Int("annotations", status.Annotations).
					Int("broadcasts", status.Broadcasts).
					Int("pendingAcks", status.PendingAcks).
					Int64("consecutiveSyncFailures", status.ConsecutiveFailures).
					Msg("session status")

				if statusFile != nil {
					body, err := json.MarshalIndent(status, "", "  ")
					if err != nil {
						body = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(append(body, '\n'))
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
