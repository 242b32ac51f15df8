package manager

import (
	"github.com/dshills/inkwell/extension"
)

// ApplyInputRule runs the first input rule whose pattern matches the
// typed text, in resolved extension order. Returns whether a rule fired.
func (m *Manager) ApplyInputRule(text string) (bool, error) {
	if err := m.requireView(); err != nil {
		return false, err
	}
	m.mu.RLock()
	rules := make([]boundRule, len(m.inputRules))
	copy(rules, m.inputRules)
	m.mu.RUnlock()
	return m.applyRules(rules, text)
}

// ApplyPasteRule runs the first paste rule whose pattern matches the
// pasted content, in resolved extension order. Returns whether a rule
// fired.
func (m *Manager) ApplyPasteRule(content string) (bool, error) {
	if err := m.requireView(); err != nil {
		return false, err
	}
	m.mu.RLock()
	rules := make([]boundRule, len(m.pasteRules))
	copy(rules, m.pasteRules)
	m.mu.RUnlock()
	return m.applyRules(rules, content)
}

func (m *Manager) applyRules(rules []boundRule, text string) (bool, error) {
	m.mu.RLock()
	view := m.view
	store := m.store
	m.mu.RUnlock()

	state := view.State()
	for _, r := range rules {
		match := r.find.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		tr := state.Transaction()
		ctx := &extension.CommandContext{
			State:    state,
			Tr:       tr,
			Runtime:  store,
			Dispatch: m.dispatch,
		}
		applies := r.handler(ctx, match)
		if applies && tr.Err() == nil && (tr.DocChanged() || tr.SelectionSet()) {
			m.dispatch(tr)
		}
		return applies, nil
	}
	return false, nil
}
