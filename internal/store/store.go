package store

import (
	"sort"
	"sync"
	"time"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/obs"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

// Store is the in-memory registry of live timers, mirrored to a backend on
// every mutation. IDs are sparse: removing the highest ID leaves a hole and
// the next unassigned insertion fills the lowest free slot.
//
// The map and the backend are one resource; every read-modify-write cycle
// holds the mutex across both.
type Store struct {
	mu      sync.Mutex
	cfg     *config.Config
	backend Backend
	timers  map[int]*timer.Timer
}

// New builds a store around backend, loading whatever it already holds.
// A nil backend gives a memory-only store; persistence is silently skipped
// for its whole life.
func New(cfg *config.Config, backend Backend) (*Store, error) {
	s := &Store{cfg: cfg, backend: backend, timers: make(map[int]*timer.Timer)}
	if backend != nil {
		loaded, err := backend.Load(cfg)
		if err != nil {
			return nil, err
		}
		for _, t := range loaded {
			s.timers[t.ID] = t
		}
	}
	obs.ActiveTimers.Set(float64(len(s.timers)))
	return s, nil
}

// Len returns the number of live timers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// IsEmpty reports whether no timers are stored.
func (s *Store) IsEmpty() bool { return s.Len() == 0 }

// Get returns the timer at id, or nil.
func (s *Store) Get(id int) *timer.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers[id]
}

// All returns the live timers ordered by ID.
func (s *Store) All() []*timer.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*timer.Timer, 0, len(s.timers))
	for _, id := range s.idsLocked() {
		out = append(out, s.timers[id])
	}
	return out
}

// Latest returns the timer with the greatest start time, or nil when no
// timer has been started. Exact ties go to the lowest ID.
func (s *Store) Latest() *timer.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestLocked()
}

// FirstToFinish returns the running timer closest to expiry, or nil when
// nothing is counting down. Exact ties go to the lowest ID.
func (s *Store) FirstToFinish() *timer.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *timer.Timer
	var bestRem time.Duration
	for _, id := range s.idsLocked() {
		t := s.timers[id]
		rem, ok := t.TimeRemaining()
		if !ok {
			continue
		}
		if best == nil || rem < bestRem {
			best, bestRem = t, rem
		}
	}
	return best
}

// Add inserts t, assigning the lowest free ID when t.ID is zero, and
// rewrites the backend. An existing timer at the same ID is replaced.
func (s *Store) Add(t *timer.Timer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.nextIDLocked()
	}
	s.timers[t.ID] = t
	return s.persistLocked()
}

// Remove deletes the timer at id and rewrites the backend. Removing an
// absent ID is a no-op (the backend is still rewritten).
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, id)
	return s.persistLocked()
}

// Pop removes and returns the timer at id, or nil when absent (in which
// case nothing is rewritten).
func (s *Store) Pop(id int) (*timer.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return nil, nil
	}
	delete(s.timers, id)
	return t, s.persistLocked()
}

// PopLatest removes and returns the most recently started timer. With
// exactly one timer stored it pops that one whatever slot it occupies,
// started or not. When several are stored but none has a start time,
// nothing is removed and nil is returned.
func (s *Store) PopLatest() (*timer.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t *timer.Timer
	if len(s.timers) == 1 {
		for _, only := range s.timers {
			t = only
		}
	} else {
		t = s.latestLocked()
	}
	if t == nil {
		return nil, nil
	}
	delete(s.timers, t.ID)
	return t, s.persistLocked()
}

// UpdateSaved reconciles a single timer against the backend without
// trusting the in-memory set: the persisted snapshot is re-read, t is
// overwritten into it (or dropped when remove is true), and the result is
// written back. The in-memory map is left alone; callers that want it
// refreshed follow up with Reload. Used when another process may have
// touched the backing file.
func (s *Store) UpdateSaved(t *timer.Timer, remove bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	loaded, err := s.backend.Load(s.cfg)
	if err != nil {
		return err
	}
	saved := make(map[int]*timer.Timer, len(loaded)+1)
	for _, lt := range loaded {
		saved[lt.ID] = lt
	}
	if remove {
		delete(saved, t.ID)
	} else {
		saved[t.ID] = t
	}
	ids := make([]int, 0, len(saved))
	for id := range saved {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*timer.Timer, 0, len(ids))
	for _, id := range ids {
		out = append(out, saved[id])
	}
	if err := s.backend.Save(out); err != nil {
		obs.ErrorsTotal.WithLabelValues("save").Inc()
		return err
	}
	obs.StoreSavesTotal.Inc()
	return nil
}

// Reload replaces the in-memory set from the backend. Memory-only stores
// keep what they have.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	loaded, err := s.backend.Load(s.cfg)
	if err != nil {
		return err
	}
	s.timers = make(map[int]*timer.Timer, len(loaded))
	for _, t := range loaded {
		s.timers[t.ID] = t
	}
	obs.ActiveTimers.Set(float64(len(s.timers)))
	return nil
}

// nextIDLocked returns the lowest positive ID with no entry. A store whose
// only timer sits at ID 5 hands out 1, not 6.
func (s *Store) nextIDLocked() int {
	for id := 1; ; id++ {
		if _, ok := s.timers[id]; !ok {
			return id
		}
	}
}

func (s *Store) latestLocked() *timer.Timer {
	var best *timer.Timer
	for _, id := range s.idsLocked() {
		t := s.timers[id]
		if t.StartTime == nil {
			continue
		}
		if best == nil || t.StartTime.After(*best.StartTime) {
			best = t
		}
	}
	return best
}

func (s *Store) idsLocked() []int {
	ids := make([]int, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// persistLocked mirrors the in-memory set to the backend. A write failure
// propagates to the caller; there is no retry.
func (s *Store) persistLocked() error {
	obs.ActiveTimers.Set(float64(len(s.timers)))
	if s.backend == nil {
		return nil
	}
	out := make([]*timer.Timer, 0, len(s.timers))
	for _, id := range s.idsLocked() {
		out = append(out, s.timers[id])
	}
	if err := s.backend.Save(out); err != nil {
		obs.ErrorsTotal.WithLabelValues("save").Inc()
		return err
	}
	obs.StoreSavesTotal.Inc()
	return nil
}
