package emergency

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

// State tracks a session through one resolution run.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateSuccess
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateSuccess:
		return "success"
	case StateDegraded:
		return "degraded"
	}
	return "unknown"
}

type sessionResolver interface {
	Resolve(ctx context.Context, coord models.Coordinate) ([]models.EmergencyContact, bool)
}

// Session is an explicit, injectable state container for resolution results.
// Runs are tagged with a monotonically increasing sequence number and a run's
// result is discarded if a newer run started after it (last-started-wins), so
// overlapping manual refreshes cannot interleave stale results.
type Session struct {
	resolver sessionResolver
	location LocationProvider

	mu       sync.Mutex
	seq      uint64
	state    State
	contacts []models.EmergencyContact
}

func NewSession(resolver sessionResolver, location LocationProvider) *Session {
	return &Session{
		resolver: resolver,
		location: location,
	}
}

// Refresh runs one resolution end to end and returns the contacts it applied,
// or nil if the run was superseded by a newer one. Never returns an error:
// permission denial and resolution failure both degrade to the default list.
func (s *Session) Refresh(ctx context.Context) []models.EmergencyContact {
	run := s.begin()

	coord, err := s.location.Current(ctx)
	if err != nil {
		slog.Warn("location unavailable, falling back to defaults", "error", err)
		return s.apply(run, DefaultContacts(), true)
	}

	contacts, degraded := s.resolver.Resolve(ctx, coord)
	return s.apply(run, contacts, degraded)
}

func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = StateResolving
	return s.seq
}

// apply installs a run's result unless a newer run has started since.
func (s *Session) apply(run uint64, contacts []models.EmergencyContact, degraded bool) []models.EmergencyContact {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.seq {
		slog.Debug("discarding superseded resolution run", "run", run, "current", s.seq)
		return nil
	}

	s.contacts = contacts
	if degraded {
		s.state = StateDegraded
	} else {
		s.state = StateSuccess
	}
	return contacts
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Contacts returns the last applied result list. Empty until the first run
// completes.
func (s *Session) Contacts() []models.EmergencyContact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EmergencyContact, len(s.contacts))
	copy(out, s.contacts)
	return out
}
