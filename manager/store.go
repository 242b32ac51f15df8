package manager

import (
	"fmt"
	"sync"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// Store is the shared mutable state extensions use to coordinate. It is
// exclusively owned by one manager. Writes are permitted only while a
// lifecycle hook is running; command callbacks see a read-only store.
// The keys backing the command and helper namespaces are frozen once a
// view is attached.
type Store struct {
	mu sync.RWMutex

	m *Manager

	values    map[string]any
	frozen    map[string]struct{}
	handlers  map[string]extension.ContentHandler
	listeners []extension.TransactionListener

	// hookOwner names the extension whose hook is currently running;
	// empty means no hook is active and the store is read-only.
	hookOwner string
}

func newStore(m *Manager) *Store {
	return &Store{
		m:        m,
		values:   make(map[string]any),
		frozen:   make(map[string]struct{}),
		handlers: make(map[string]extension.ContentHandler),
	}
}

// beginHook opens the write window for one extension's hook.
func (s *Store) beginHook(owner string) {
	s.mu.Lock()
	s.hookOwner = owner
	s.mu.Unlock()
}

// endHook closes the write window.
func (s *Store) endHook() {
	s.mu.Lock()
	s.hookOwner = ""
	s.mu.Unlock()
}

// freeze marks keys as immutable for the rest of the manager's life.
func (s *Store) freeze(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.frozen[k] = struct{}{}
	}
}

// release drops all store contents at manager teardown.
func (s *Store) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = nil
	s.frozen = nil
	s.handlers = nil
	s.listeners = nil
}

// State implements extension.Runtime. Returns nil before a view is
// attached.
func (s *Store) State() *document.State {
	return s.m.viewState()
}

// Schema implements extension.Runtime.
func (s *Store) Schema() *document.Schema {
	return s.m.Schema()
}

// Set implements extension.Runtime. Fails outside lifecycle hooks and on
// frozen keys.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return ErrManagerDestroyed
	}
	if s.hookOwner == "" {
		return fmt.Errorf("store key %q: %w", key, ErrStoreLocked)
	}
	if _, frozen := s.frozen[key]; frozen {
		return fmt.Errorf("store key %q: %w", key, ErrStoreKeyFrozen)
	}
	s.values[key] = value
	return nil
}

// Get implements extension.Runtime.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// SetContentHandler implements extension.Runtime. Handlers are
// registered during create hooks.
func (s *Store) SetContentHandler(name string, h extension.ContentHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handlers == nil {
		return ErrManagerDestroyed
	}
	if s.hookOwner == "" {
		return fmt.Errorf("content handler %q: %w", name, ErrStoreLocked)
	}
	s.handlers[name] = h
	return nil
}

// ContentHandler implements extension.Runtime.
func (s *Store) ContentHandler(name string) (extension.ContentHandler, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handlers[name]
	return h, ok
}

// OnTransaction implements extension.Runtime. Listeners observe every
// dispatched transaction; registration happens during lifecycle hooks.
func (s *Store) OnTransaction(fn extension.TransactionListener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hookOwner == "" {
		return fmt.Errorf("transaction listener: %w", ErrStoreLocked)
	}
	s.listeners = append(s.listeners, fn)
	return nil
}

// notify calls every transaction listener. Called outside the store lock.
func (s *Store) notify(tr *document.Transaction, state *document.State) {
	s.mu.RLock()
	listeners := make([]extension.TransactionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(tr, state)
	}
}
