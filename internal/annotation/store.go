// Package annotation stores typed map markings with acknowledgment
// tracking and geofence evaluation.
package annotation

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/gridtrack/pkg/core"
)

// CreateParams is the operator input for a new annotation.
type CreateParams struct {
	Label       string
	Color       string
	CreatedBy   string
	Geometry    core.Geometry
	RequiresAck bool
	Priority    string
}

// Store is the single writer for annotations. Readers always observe a
// fully consistent snapshot; mutations swap whole values under the lock.
type Store struct {
	mu          sync.RWMutex
	annotations map[string]core.Annotation
	subscribers []func()

	now func() time.Time
}

// NewStore creates an empty annotation store.
func NewStore() *Store {
	return &Store{
		annotations: make(map[string]core.Annotation),
		now:         time.Now,
	}
}

// Subscribe registers a change callback fired after every committed
// mutation. Consumers re-read snapshots instead of sharing mutable state.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Create validates and commits a new annotation. On any validation failure
// no partial state is committed.
func (s *Store) Create(p CreateParams) (core.Annotation, error) {
	if p.Label == "" {
		return core.Annotation{}, &core.ValidationError{Field: "label", Reason: "must not be empty"}
	}
	if err := ValidateGeometry(p.Geometry); err != nil {
		return core.Annotation{}, err
	}

	a := core.Annotation{
		ID:          uuid.NewString(),
		Label:       p.Label,
		Color:       p.Color,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   s.now(),
		Geometry:    p.Geometry,
		RequiresAck: p.RequiresAck,
		Priority:    p.Priority,
	}

	s.mu.Lock()
	s.annotations[a.ID] = a
	subs := s.subscribers
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return a, nil
}

// Put inserts or replaces an annotation wholesale, e.g. when loading a
// persisted snapshot or applying a poll result.
func (s *Store) Put(a core.Annotation) {
	s.mu.Lock()
	s.annotations[a.ID] = a
	subs := s.subscribers
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Acknowledge inserts or replaces the agent's acknowledgment for the given
// annotation. Acknowledging an id that no longer exists is a silent no-op:
// it races with deletion by design.
func (s *Store) Acknowledge(annotationID string, ack core.Acknowledgment) error {
	ack.TargetID = annotationID
	if err := ack.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	a, ok := s.annotations[annotationID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	a.Acks = core.ReplaceAck(a.Acks, ack)
	s.annotations[annotationID] = a
	subs := s.subscribers
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return nil
}

// Delete removes the annotation and all its acknowledgments atomically.
// Unknown ids are a no-op.
func (s *Store) Delete(annotationID string) {
	s.mu.Lock()
	_, ok := s.annotations[annotationID]
	if ok {
		delete(s.annotations, annotationID)
	}
	subs := s.subscribers
	s.mu.Unlock()

	if ok {
		for _, fn := range subs {
			fn()
		}
	}
}

// Get returns a copy of one annotation.
func (s *Store) Get(annotationID string) (core.Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.annotations[annotationID]
	if !ok {
		return core.Annotation{}, false
	}
	return copyAnnotation(a), true
}

// List returns a snapshot of all annotations ordered by creation time.
func (s *Store) List() []core.Annotation {
	s.mu.RLock()
	out := make([]core.Annotation, 0, len(s.annotations))
	for _, a := range s.annotations {
		out = append(out, copyAnnotation(a))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Zones returns the annotations that act as restricted zones: they require
// acknowledgment and their geometry has containment semantics.
func (s *Store) Zones() []core.Annotation {
	all := s.List()
	zones := all[:0]
	for _, a := range all {
		if !a.RequiresAck || a.Geometry == nil {
			continue
		}
		switch a.Geometry.Kind() {
		case core.KindCircle, core.KindRectangle, core.KindPolygon:
			zones = append(zones, a)
		}
	}
	return zones
}

// Len returns the number of stored annotations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.annotations)
}

func copyAnnotation(a core.Annotation) core.Annotation {
	acks := make([]core.Acknowledgment, len(a.Acks))
	copy(acks, a.Acks)
	a.Acks = acks
	return a
}
