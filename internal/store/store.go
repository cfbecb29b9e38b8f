// Package store holds the client's task collection and applies the
// reconciliation rules that keep it consistent with the remote store.
//
// State changes only through Dispatch. Reduce is pure, so the rules can be
// tested without a UI or a server.
package store

import (
	"sync"

	"taskdeck/internal/service"
	"taskdeck/internal/view"
)

// State is a snapshot of the client state.
type State struct {
	// Tasks is the committed collection, in arrival order.
	Tasks []service.Task

	// Categories are the known categories.
	Categories []service.Category

	// Query holds the projection filter and sort direction.
	Query view.Query

	// PendingCreates maps provisional ids to drafts awaiting the server.
	PendingCreates map[string]service.Draft

	// PendingToggles maps server ids to the completion flag before a toggle
	// that has not been confirmed yet.
	PendingToggles map[int64]bool
}

// Visible returns the projection of the collection.
func (s State) Visible() []service.Task {
	return view.Project(s.Tasks, s.Query)
}

// Find returns the task with the given server id.
func (s State) Find(id int64) (service.Task, bool) {
	i := indexOf(s.Tasks, id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.Tasks[i], true
}

// IsPending reports whether the task has an unconfirmed toggle.
func (s State) IsPending(id int64) bool {
	_, ok := s.PendingToggles[id]
	return ok
}

// FindCategory returns the category with the given name.
func (s State) FindCategory(name string) (service.Category, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return service.Category{}, false
}

func (s State) clone() State {
	out := s
	out.Tasks = append([]service.Task(nil), s.Tasks...)
	out.Categories = append([]service.Category(nil), s.Categories...)
	out.PendingCreates = make(map[string]service.Draft, len(s.PendingCreates))
	for k, v := range s.PendingCreates {
		out.PendingCreates[k] = v
	}
	out.PendingToggles = make(map[int64]bool, len(s.PendingToggles))
	for k, v := range s.PendingToggles {
		out.PendingToggles[k] = v
	}
	return out
}

// Store is a mutex-guarded State with change listeners.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// New creates an empty store with ascending sort and no filter.
func New() *Store {
	return &Store{
		state: State{
			PendingCreates: make(map[string]service.Draft),
			PendingToggles: make(map[int64]bool),
		},
		listeners: make(map[int]func(State)),
	}
}

// Dispatch applies a and returns the resulting snapshot.
// Listeners are called after the lock is released.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snap := s.state.clone()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to be called after every dispatch.
// The returned function removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
