package manager

import (
	"fmt"

	"github.com/dshills/inkwell/extension"
)

// CommandSet is the direct command surface: every command runs against
// the live view and commits immediately.
type CommandSet struct {
	m *Manager
}

// Commands returns the direct command surface. Fails before a view is
// attached and after destruction.
func (m *Manager) Commands() (*CommandSet, error) {
	if err := m.requireView(); err != nil {
		return nil, err
	}
	return &CommandSet{m: m}, nil
}

// Names returns every command name in sorted order.
func (cs *CommandSet) Names() []string {
	cs.m.mu.RLock()
	defer cs.m.mu.RUnlock()
	return sortedKeys(cs.m.commands)
}

// Has reports whether a command is registered.
func (cs *CommandSet) Has(name string) bool {
	cs.m.mu.RLock()
	defer cs.m.mu.RUnlock()
	_, ok := cs.m.commands[name]
	return ok
}

// Chainable reports whether a command participates in the chain surface.
func (cs *CommandSet) Chainable(name string) (bool, error) {
	cs.m.mu.RLock()
	defer cs.m.mu.RUnlock()
	entry, ok := cs.m.commands[name]
	if !ok {
		return false, fmt.Errorf("command %q: %w", name, ErrUnknownCommand)
	}
	return entry.chainable, nil
}

// Exec runs a command against the current state and dispatches its
// transaction. Returns the command's applicability result; false is a
// normal outcome, never an error.
func (cs *CommandSet) Exec(name string, args ...map[string]any) (bool, error) {
	return cs.run(name, mergeArgs(args), true)
}

// Can dry-runs a command: it reports whether the command would succeed
// without changing any state.
func (cs *CommandSet) Can(name string, args ...map[string]any) (bool, error) {
	return cs.run(name, mergeArgs(args), false)
}

func (cs *CommandSet) run(name string, args map[string]any, dispatch bool) (bool, error) {
	m := cs.m
	if err := m.requireView(); err != nil {
		return false, err
	}

	m.mu.RLock()
	entry, ok := m.commands[name]
	view := m.view
	store := m.store
	m.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("command %q: %w", name, ErrUnknownCommand)
	}

	state := view.State()
	tr := state.Transaction()
	ctx := &extension.CommandContext{
		State:   state,
		Tr:      tr,
		Args:    args,
		Runtime: store,
	}
	if dispatch {
		// Commands write steps into ctx.Tr; the surface commits. The
		// non-nil Dispatch signals that effects will be applied.
		ctx.Dispatch = m.dispatch
	}

	applies := entry.fn(ctx)
	if !dispatch {
		return applies, nil
	}
	if tr.Err() != nil {
		return false, nil
	}
	if applies && (tr.DocChanged() || tr.SelectionSet()) {
		m.dispatch(tr)
	}
	return applies, nil
}

// HelperSet is the helper surface: named read-only queries over the
// current state.
type HelperSet struct {
	m *Manager
}

// Helpers returns the helper surface. Fails before a view is attached
// and after destruction; helpers are not designed to degrade gracefully.
func (m *Manager) Helpers() (*HelperSet, error) {
	if err := m.requireView(); err != nil {
		return nil, err
	}
	return &HelperSet{m: m}, nil
}

// Names returns every helper name in sorted order.
func (hs *HelperSet) Names() []string {
	hs.m.mu.RLock()
	defer hs.m.mu.RUnlock()
	return sortedKeys(hs.m.helpers)
}

// Call computes a helper's value against the current state.
func (hs *HelperSet) Call(name string) (any, error) {
	m := hs.m
	if err := m.requireView(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	entry, ok := m.helpers[name]
	view := m.view
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("helper %q: %w", name, ErrUnknownHelper)
	}
	return entry.fn(view.State()), nil
}

// mergeArgs flattens variadic argument maps; later maps win.
func mergeArgs(args []map[string]any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	if len(args) == 1 {
		return args[0]
	}
	out := make(map[string]any)
	for _, a := range args {
		for k, v := range a {
			out[k] = v
		}
	}
	return out
}
