package broadcast

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/gridtrack/pkg/core"
)

// CommandKind names the mutations the store accepts.
type CommandKind string

const (
	CmdIssue       CommandKind = "issue"
	CmdAcknowledge CommandKind = "acknowledge"
	CmdMerge       CommandKind = "merge"
)

// Command is an explicit mutation request. All writes go through Apply so
// the ordering and dedup invariants live in one place instead of at every
// call site.
type Command struct {
	Kind        CommandKind
	Broadcast   core.Broadcast     // CmdIssue, CmdMerge
	BroadcastID string             // CmdAcknowledge
	Ack         core.Acknowledgment // CmdAcknowledge
}

// Result is the outcome of a command: the new state of the touched
// broadcast, or the error that rejected it. NotFound surfaces as a nil
// error with Applied=false (concurrent deletes are not failures).
type Result struct {
	Broadcast core.Broadcast
	Applied   bool
	Err       error
}

// Store is the single writer for tracked broadcasts.
type Store struct {
	mu          sync.RWMutex
	broadcasts  map[string]core.Broadcast
	subscribers []func()

	now func() time.Time
}

// NewStore creates an empty broadcast store.
func NewStore() *Store {
	return &Store{
		broadcasts: make(map[string]core.Broadcast),
		now:        time.Now,
	}
}

// Subscribe registers a change callback fired after every applied command.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Apply executes a command under the store lock and returns its result.
func (s *Store) Apply(cmd Command) Result {
	s.mu.Lock()
	var res Result
	switch cmd.Kind {
	case CmdIssue:
		res = s.applyIssue(cmd.Broadcast)
	case CmdAcknowledge:
		res = s.applyAck(cmd.BroadcastID, cmd.Ack)
	case CmdMerge:
		res = s.applyMerge(cmd.Broadcast)
	default:
		res = Result{Err: &core.ValidationError{Field: "kind", Reason: "unknown command " + string(cmd.Kind)}}
	}
	subs := s.subscribers
	s.mu.Unlock()

	if res.Applied {
		for _, fn := range subs {
			fn()
		}
	}
	return res
}

func (s *Store) applyIssue(b core.Broadcast) Result {
	if b.Message == "" {
		return Result{Err: &core.ValidationError{Field: "message", Reason: "must not be empty"}}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.IssuedAt.IsZero() {
		b.IssuedAt = s.now()
	}
	b.Acks = nil
	s.broadcasts[b.ID] = b
	return Result{Broadcast: b, Applied: true}
}

// applyAck inserts or replaces the agent's acknowledgment. Late
// acknowledgments on expired broadcasts are accepted: expiry affects
// presentation, not protocol correctness, and dropping a late operator
// response loses data.
func (s *Store) applyAck(broadcastID string, ack core.Acknowledgment) Result {
	ack.TargetID = broadcastID
	if err := ack.Validate(); err != nil {
		return Result{Err: err}
	}

	b, ok := s.broadcasts[broadcastID]
	if !ok {
		// races with deletion; treated as a no-op, not an error
		return Result{}
	}
	b.Acks = core.ReplaceAck(b.Acks, ack)
	s.broadcasts[broadcastID] = b
	return Result{Broadcast: b, Applied: true}
}

// applyMerge folds a broadcast received from the sync collaborator into
// local state. Locally held acknowledgments win over the remote copy for
// the same agent: a local optimistic ack is reconciled with its echo, never
// destructively overwritten. Remote acks from agents we have not heard
// from locally are adopted.
func (s *Store) applyMerge(remote core.Broadcast) Result {
	if remote.ID == "" {
		return Result{Err: &core.ValidationError{Field: "id", Reason: "merge requires an id"}}
	}

	local, ok := s.broadcasts[remote.ID]
	if !ok {
		s.broadcasts[remote.ID] = remote
		return Result{Broadcast: remote, Applied: true}
	}

	merged := remote
	merged.Acks = nil
	for _, a := range remote.Acks {
		merged.Acks = core.ReplaceAck(merged.Acks, a)
	}
	for _, a := range local.Acks {
		merged.Acks = core.ReplaceAck(merged.Acks, a)
	}
	s.broadcasts[remote.ID] = merged
	return Result{Broadcast: merged, Applied: true}
}

// Issue validates and stores a new broadcast.
func (s *Store) Issue(b core.Broadcast) (core.Broadcast, error) {
	res := s.Apply(Command{Kind: CmdIssue, Broadcast: b})
	return res.Broadcast, res.Err
}

// Acknowledge records an agent's response. Unknown ids are a silent no-op.
func (s *Store) Acknowledge(broadcastID string, ack core.Acknowledgment) error {
	return s.Apply(Command{Kind: CmdAcknowledge, BroadcastID: broadcastID, Ack: ack}).Err
}

// Merge folds a polled broadcast into local state.
func (s *Store) Merge(b core.Broadcast) error {
	return s.Apply(Command{Kind: CmdMerge, Broadcast: b}).Err
}

// Get returns a copy of one broadcast.
func (s *Store) Get(id string) (core.Broadcast, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.broadcasts[id]
	if !ok {
		return core.Broadcast{}, false
	}
	return copyBroadcast(b), true
}

// List returns a snapshot of all broadcasts ordered by issue time.
func (s *Store) List() []core.Broadcast {
	s.mu.RLock()
	out := make([]core.Broadcast, 0, len(s.broadcasts))
	for _, b := range s.broadcasts {
		out = append(out, copyBroadcast(b))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].IssuedAt.Before(out[j].IssuedAt)
	})
	return out
}

// Len returns the number of tracked broadcasts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.broadcasts)
}

func copyBroadcast(b core.Broadcast) core.Broadcast {
	acks := make([]core.Acknowledgment, len(b.Acks))
	copy(acks, b.Acks)
	b.Acks = acks
	targets := make([]string, len(b.TargetAgents))
	copy(targets, b.TargetAgents)
	b.TargetAgents = targets
	return b
}
