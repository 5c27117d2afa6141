// Package handlers binds dispatcher commands to the session stores. All
// state mutation flows through here so the command surface stays in one
// place.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/internal/annotation"
	"github.com/fieldops/gridtrack/internal/broadcast"
	"github.com/fieldops/gridtrack/internal/dispatcher"
	"github.com/fieldops/gridtrack/internal/tracker"
	"github.com/fieldops/gridtrack/internal/trail"
	"github.com/fieldops/gridtrack/pkg/core"
)

// AckSink receives locally-captured acknowledgments for upstream delivery.
type AckSink interface {
	EnqueueAck(ack core.Acknowledgment)
}

// PresencePublisher mirrors live asset state to an external store.
type PresencePublisher interface {
	Publish(ctx context.Context, asset core.Asset)
}

// TelemetryRecorder receives every applied position report for metrics.
type TelemetryRecorder interface {
	RecordTelemetry(asset core.Asset, at time.Time)
}

// Notifier surfaces operator-facing alerts.
type Notifier interface {
	NotifyBroadcast(b core.Broadcast)
	NotifyViolation(v annotation.Violation)
}

// Dependencies holds everything the handlers operate on. Sink, Presence,
// Metrics and Notifier may be nil.
type Dependencies struct {
	Tracker     *tracker.Registry
	Trails      *trail.Buffer
	Annotations *annotation.Store
	Broadcasts  *broadcast.Store
	Detector    *annotation.Detector
	Notifier    Notifier
	Sink        AckSink
	Presence    PresencePublisher
	Metrics     TelemetryRecorder
	Logger      zerolog.Logger
}

// Service processes dispatched commands.
type Service struct {
	deps   Dependencies
	logger zerolog.Logger
}

// NewService creates a handler service.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:   deps,
		logger: deps.Logger.With().Str("component", "handlers").Logger(),
	}
}

// AnnotationAck carries an acknowledgment for one annotation.
type AnnotationAck struct {
	AnnotationID string
	Ack          core.Acknowledgment
}

// BroadcastAck carries an acknowledgment for one broadcast.
type BroadcastAck struct {
	BroadcastID string
	Ack         core.Acknowledgment
}

// RegisterAll wires every command onto the dispatcher.
func (s *Service) RegisterAll(d *dispatcher.Dispatcher) {
	d.Register(dispatcher.CmdTelemetry, s.handleTelemetry, dispatcher.Logged())
	d.Register(dispatcher.CmdAnnotationCreate, s.handleAnnotationCreate, dispatcher.Logged())
	d.Register(dispatcher.CmdAnnotationAck, s.handleAnnotationAck)
	d.Register(dispatcher.CmdAnnotationDelete, s.handleAnnotationDelete)
	d.Register(dispatcher.CmdBroadcastIssue, s.handleBroadcastIssue, dispatcher.Logged())
	d.Register(dispatcher.CmdBroadcastAck, s.handleBroadcastAck)
	d.Register(dispatcher.CmdBroadcastMerge, s.handleBroadcastMerge)
	d.Register(dispatcher.CmdTrailClear, s.handleTrailClear)
}

// handleTelemetry applies a batch of position reports. Invalid reports are
// logged and skipped; one bad report must not sink the batch.
func (s *Service) handleTelemetry(e dispatcher.Event) (any, error) {
	var reports []core.Telemetry
	switch p := e.Payload.(type) {
	case []core.Telemetry:
		reports = p
	case core.Telemetry:
		reports = []core.Telemetry{p}
	default:
		return nil, fmt.Errorf("telemetry payload has type %T", e.Payload)
	}

	applied := 0
	for _, tel := range reports {
		asset, err := s.deps.Tracker.ApplyTelemetry(tel)
		if err != nil {
			s.logger.Warn().Err(err).Str("agentId", tel.AgentID).Msg("rejected position report")
			continue
		}
		applied++

		if s.deps.Presence != nil {
			s.deps.Presence.Publish(context.Background(), asset)
		}
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordTelemetry(asset, e.Timestamp)
		}
		if s.deps.Detector != nil {
			fired := s.deps.Detector.Check(asset, s.deps.Annotations.Zones(), e.Timestamp)
			for _, v := range fired {
				if s.deps.Notifier != nil {
					s.deps.Notifier.NotifyViolation(v)
				}
			}
		}
	}
	return applied, nil
}

func (s *Service) handleAnnotationCreate(e dispatcher.Event) (any, error) {
	params, ok := e.Payload.(annotation.CreateParams)
	if !ok {
		return nil, fmt.Errorf("annotation create payload has type %T", e.Payload)
	}
	return s.deps.Annotations.Create(params)
}

func (s *Service) handleAnnotationAck(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(AnnotationAck)
	if !ok {
		return nil, fmt.Errorf("annotation ack payload has type %T", e.Payload)
	}
	if err := s.deps.Annotations.Acknowledge(p.AnnotationID, p.Ack); err != nil {
		return nil, err
	}
	return p.AnnotationID, nil
}

func (s *Service) handleAnnotationDelete(e dispatcher.Event) (any, error) {
	id, ok := e.Payload.(string)
	if !ok {
		return nil, fmt.Errorf("annotation delete payload has type %T", e.Payload)
	}
	s.deps.Annotations.Delete(id)
	if s.deps.Detector != nil {
		s.deps.Detector.ForgetAnnotation(id)
	}
	return id, nil
}

func (s *Service) handleBroadcastIssue(e dispatcher.Event) (any, error) {
	b, ok := e.Payload.(core.Broadcast)
	if !ok {
		return nil, fmt.Errorf("broadcast issue payload has type %T", e.Payload)
	}
	issued, err := s.deps.Broadcasts.Issue(b)
	if err != nil {
		return nil, err
	}
	if s.deps.Notifier != nil {
		s.deps.Notifier.NotifyBroadcast(issued)
	}
	return issued, nil
}

// handleBroadcastAck records a local acknowledgment and queues it for
// delivery on the next sync tick.
func (s *Service) handleBroadcastAck(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(BroadcastAck)
	if !ok {
		return nil, fmt.Errorf("broadcast ack payload has type %T", e.Payload)
	}
	if err := s.deps.Broadcasts.Acknowledge(p.BroadcastID, p.Ack); err != nil {
		return nil, err
	}
	if s.deps.Sink != nil {
		ack := p.Ack
		ack.TargetID = p.BroadcastID
		s.deps.Sink.EnqueueAck(ack)
	}
	return p.BroadcastID, nil
}

// handleBroadcastMerge folds a polled-in broadcast set into the local
// store. Directives seen for the first time alert exactly like locally
// issued ones; the operator should not care which console they arrived on.
func (s *Service) handleBroadcastMerge(e dispatcher.Event) (any, error) {
	remote, ok := e.Payload.([]core.Broadcast)
	if !ok {
		return nil, fmt.Errorf("broadcast merge payload has type %T", e.Payload)
	}
	for _, b := range remote {
		_, known := s.deps.Broadcasts.Get(b.ID)
		if err := s.deps.Broadcasts.Merge(b); err != nil {
			s.logger.Warn().Err(err).Str("broadcastId", b.ID).Msg("rejected remote broadcast")
			continue
		}
		if !known && s.deps.Notifier != nil {
			s.deps.Notifier.NotifyBroadcast(b)
		}
	}
	return len(remote), nil
}

func (s *Service) handleTrailClear(e dispatcher.Event) (any, error) {
	assetID, ok := e.Payload.(string)
	if !ok {
		return nil, fmt.Errorf("trail clear payload has type %T", e.Payload)
	}
	s.deps.Trails.Clear(assetID)
	return assetID, nil
}
