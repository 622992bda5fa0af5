package session

import (
	"context"
	"errors"
	"sync"

	"github.com/birrama/careers/internal/wizard"
)

// Manager serialises access to each session so concurrent requests from one browser
// never interleave their read-modify-write cycles.
type Manager struct {
	Store Store

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store) *Manager {
	return &Manager{Store: store, locks: make(map[string]*sessionLock)}
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) load(ctx context.Context, id string) (*wizard.Wizard, error) {
	w, err := m.Store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return wizard.New(), nil
	}
	return w, err
}

// Get returns the current wizard for id, or a fresh one if the session is new or expired.
func (m *Manager) Get(ctx context.Context, id string) (*wizard.Wizard, error) {
	unlock := m.lock(id)
	defer unlock()
	return m.load(ctx, id)
}

// Update runs fn against the session's wizard and saves the result. When fn fails the
// stored state is left as it was.
func (m *Manager) Update(ctx context.Context, id string, fn func(w *wizard.Wizard) error) (*wizard.Wizard, error) {
	unlock := m.lock(id)
	defer unlock()

	w, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return w, err
	}
	if err := m.Store.Save(ctx, id, w); err != nil {
		return nil, err
	}
	return w, nil
}
