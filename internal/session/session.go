/*
Package session tracks the analysis state of each browser session in memory.
*/
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shanehull/trendscan/internal/types"
)

type Status int

const (
	Idle Status = iota
	Requesting
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrInFlight is returned by Begin while the session already has a
	// request running.
	ErrInFlight = errors.New("analysis already in progress")
	// ErrNotFound is returned for unknown session IDs.
	ErrNotFound = errors.New("session not found")
)

// State is the analysis state of one session. Result is set only in
// Success, Err only in Failed.
type State struct {
	Status     Status
	Niche      string
	Result     *types.TrendAnalysisResult
	Err        string
	StartedAt  time.Time
	FinishedAt time.Time
}

type entry struct {
	state    State
	lastSeen time.Time
}

// Store holds session states keyed by session ID.
type Store struct {
	mutex    sync.Mutex
	sessions map[uuid.UUID]*entry
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		now:      time.Now,
	}
}

// New registers a fresh Idle session and returns its ID.
func (s *Store) New() uuid.UUID {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := uuid.New()
	s.sessions[id] = &entry{lastSeen: s.now()}
	return id
}

// Get returns a copy of the session state. Unknown IDs read as Idle.
func (s *Store) Get(id uuid.UUID) State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return State{Status: Idle}
	}
	e.lastSeen = s.now()
	return e.state
}

// Exists reports whether the ID belongs to a live session.
func (s *Store) Exists(id uuid.UUID) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, ok := s.sessions[id]
	return ok
}

// Begin moves the session to Requesting. The previous result or error is
// dropped. It fails with ErrInFlight if a request is already running.
func (s *Store) Begin(id uuid.UUID, niche string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		e = &entry{}
		s.sessions[id] = e
	}
	if e.state.Status == Requesting {
		return ErrInFlight
	}

	now := s.now()
	e.state = State{Status: Requesting, Niche: niche, StartedAt: now}
	e.lastSeen = now
	return nil
}

// Complete stores a successful result.
func (s *Store) Complete(id uuid.UUID, result *types.TrendAnalysisResult) error {
	return s.finish(id, func(st *State) {
		st.Status = Success
		st.Result = result
	})
}

// Fail stores a terminal error message.
func (s *Store) Fail(id uuid.UUID, message string) error {
	return s.finish(id, func(st *State) {
		st.Status = Failed
		st.Err = message
	})
}

func (s *Store) finish(id uuid.UUID, apply func(*State)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}

	now := s.now()
	st := State{Niche: e.state.Niche, StartedAt: e.state.StartedAt, FinishedAt: now}
	apply(&st)
	e.state = st
	e.lastSeen = now
	return nil
}

// Sweep drops sessions idle for longer than maxIdle, except those with a
// request in flight. It returns the number removed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, e := range s.sessions {
		if e.state.Status != Requesting && e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}
