package manager

import (
	"github.com/dshills/inkwell/extension"
)

// KeyBinding is an introspectable entry of the resolved keymap.
type KeyBinding struct {
	// Keys is the resolved shortcut.
	Keys string

	// Command names the command the binding maps to.
	Command string

	// Owner names the extension that declared the binding.
	Owner string

	// Priority is the binding's precedence override.
	Priority int

	// Description documents the binding.
	Description string
}

// Keymap returns the resolved keymap in precedence order: binding
// priority first, then resolved extension order. On a shortcut conflict
// the earlier binding wins.
func (m *Manager) Keymap() ([]KeyBinding, error) {
	if err := m.requireView(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]KeyBinding, len(m.keymap))
	for i, bk := range m.keymap {
		out[i] = KeyBinding{
			Keys:        bk.keys,
			Command:     bk.Keybinding.Command,
			Owner:       bk.owner,
			Priority:    bk.Keybinding.Priority,
			Description: bk.Keybinding.Description,
		}
	}
	return out, nil
}

// HandleKey fires the highest-precedence binding for a shortcut whose
// When predicate passes. Returns whether any binding handled the key.
func (m *Manager) HandleKey(keys string) (bool, error) {
	if err := m.requireView(); err != nil {
		return false, err
	}

	m.mu.RLock()
	bindings := make([]boundKey, len(m.keymap))
	copy(bindings, m.keymap)
	view := m.view
	store := m.store
	m.mu.RUnlock()

	state := view.State()
	for _, bk := range bindings {
		if bk.keys != keys {
			continue
		}
		if bk.When != nil && !bk.When(state) {
			continue
		}

		if bk.Handler != nil {
			tr := state.Transaction()
			ctx := &extension.CommandContext{
				State:    state,
				Tr:       tr,
				Args:     bk.Args,
				Runtime:  store,
				Dispatch: m.dispatch,
			}
			applies := bk.Handler(ctx)
			if applies && tr.Err() == nil && (tr.DocChanged() || tr.SelectionSet()) {
				m.dispatch(tr)
			}
			return applies, nil
		}

		if bk.Keybinding.Command != "" {
			cs := &CommandSet{m: m}
			return cs.Exec(bk.Keybinding.Command, bk.Args)
		}
		return false, nil
	}
	return false, nil
}
