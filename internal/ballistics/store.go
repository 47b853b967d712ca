package ballistics

import (
	"sync"
	"time"
)

// Key identifies one meter instance.
type Key string

// NewKey derives the state key from the two identifiers the host assigns to
// a meter instance.
func NewKey(controlID, feedbackID string) Key {
	return Key(controlID + ":" + feedbackID)
}

// Store holds the per-instance meter states. Entries are never removed by
// the engine; callers owning the instance lifecycle use Delete.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

type entry struct {
	mu    sync.Mutex
	state State
	set   bool
	dead  bool // removed from the map; holders must look the key up again
}

// NewStore creates an empty state store.
func NewStore() *Store {
	return &Store{entries: make(map[Key]*entry)}
}

// Get returns the state stored for key.
func (s *Store) Get(key Key) (State, bool) {
	e := s.lookup(key, false)
	if e == nil {
		return State{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead {
		return State{}, false
	}
	return e.state, e.set
}

// Put inserts or replaces the state for key.
func (s *Store) Put(key Key, st State) {
	s.update(key, func(*State) State { return st })
}

// Delete drops the state for key. It waits for an update in progress on
// the key to finish.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.mu.Lock()
	e.dead = true
	e.mu.Unlock()
	delete(s.entries, key)
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// update runs fn under the key's lock so read-modify-write cycles on the same
// key never interleave. Different keys only share the map lookup.
func (s *Store) update(key Key, fn func(prev *State) State) State {
	for {
		e := s.lookup(key, true)
		e.mu.Lock()
		if e.dead {
			// Deleted between lookup and lock.
			e.mu.Unlock()
			continue
		}
		st := e.apply(fn)
		e.mu.Unlock()
		return st
	}
}

func (e *entry) apply(fn func(prev *State) State) State {
	var prev *State
	if e.set {
		p := e.state
		prev = &p
	}
	e.state = fn(prev)
	e.set = true
	return e.state
}

func (s *Store) lookup(key Key, create bool) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok && create {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}

// Clock returns the current time.
type Clock func() time.Time

// Engine applies ballistics to a stream of readings per key.
type Engine struct {
	store  *Store
	now    Clock
	params Params
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

// WithParams overrides the timing constants.
func WithParams(p Params) Option {
	return func(e *Engine) {
		e.params = p
	}
}

// NewEngine creates an engine backed by store. A nil store gets a fresh one.
func NewEngine(store *Store, opts ...Option) *Engine {
	if store == nil {
		store = NewStore()
	}
	e := &Engine{store: store, now: time.Now, params: DefaultParams()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Update feeds a raw reading for key and returns the new state, which also
// replaces the stored one.
func (e *Engine) Update(key Key, raw float64) State {
	return e.store.update(key, func(prev *State) State {
		return Step(prev, raw, e.now(), e.params)
	})
}

// Store returns the engine's backing store.
func (e *Engine) Store() *Store { return e.store }

// Params returns the engine's timing constants.
func (e *Engine) Params() Params { return e.params }
