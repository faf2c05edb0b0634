package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"aashub/internal/app"
)

var (
	ErrDefined   = errors.New("state already defined")
	ErrUndefined = errors.New("state not defined")
)

// Listener is called after a state value changes.
type Listener func(id string, value any)

// Store holds named application state. It is attached to the application
// as the "store" plugin and is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	states map[string]any

	subMu  sync.Mutex
	nextID int
	subs   map[int]Listener
}

// New returns an empty store.
func New() *Store {
	return &Store{states: map[string]any{}, subs: map[int]Listener{}}
}

func (s *Store) Name() string { return "store" }

func (s *Store) Install(a *app.App) error {
	a.SetState(s)
	return nil
}

// Define registers id with its initial value.
func (s *Store) Define(id string, initial any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[id]; ok {
		return fmt.Errorf("%s: %w", id, ErrDefined)
	}
	s.states[id] = initial
	return nil
}

// Get returns the current value of id.
func (s *Store) Get(id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.states[id]
	return v, ok
}

// Set replaces the value of a defined id and notifies listeners.
func (s *Store) Set(id string, value any) error {
	return s.Update(id, func(any) any { return value })
}

// Update replaces the value of id with fn(current) atomically with respect
// to other writers, then notifies listeners.
func (s *Store) Update(id string, fn func(current any) any) error {
	s.mu.Lock()
	cur, ok := s.states[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", id, ErrUndefined)
	}
	next := fn(cur)
	s.states[id] = next
	s.mu.Unlock()

	s.notify(id, next)
	return nil
}

// IDs returns the defined ids, sorted.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.states))
	for id := range s.states {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(id string, value any) {
	s.subMu.Lock()
	keys := make([]int, 0, len(s.subs))
	for k := range s.subs {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fns := make([]Listener, 0, len(keys))
	for _, k := range keys {
		fns = append(fns, s.subs[k])
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(id, value)
	}
}

// Value returns the value of id as T. It reports false when id is not
// defined or holds another type.
func Value[T any](s interface{ Get(string) (any, bool) }, id string) (T, bool) {
	var zero T
	v, ok := s.Get(id)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
