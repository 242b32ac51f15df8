package manager

import (
	"fmt"
	"reflect"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// activeEntry is one active-state query: a mark or node extension's
// per-selection predicate.
type activeEntry struct {
	kind  extension.Kind
	owner string
}

// buildActive registers an active-state query for every mark and node
// extension. Callers hold m.mu.
func (m *Manager) buildActive() {
	m.active = make(map[string]activeEntry)
	for _, e := range m.exts {
		switch e.Kind() {
		case extension.KindMark, extension.KindNode:
			m.active[e.Name()] = activeEntry{kind: e.Kind(), owner: e.Name()}
		}
	}
}

// ActiveSet answers whether a mark or node type applies at the current
// selection. Every query reads the state fresh; nothing is cached, since
// the selection moves on every keystroke.
type ActiveSet struct {
	m *Manager
}

// Active returns the active-state surface. Fails before a view is
// attached and after destruction.
func (m *Manager) Active() (*ActiveSet, error) {
	if err := m.requireView(); err != nil {
		return nil, err
	}
	return &ActiveSet{m: m}, nil
}

// Names returns every queryable type name in sorted order.
func (as *ActiveSet) Names() []string {
	as.m.mu.RLock()
	defer as.m.mu.RUnlock()
	return sortedKeys(as.m.active)
}

// Is reports whether the named mark or node type is active anywhere in
// the current selection.
func (as *ActiveSet) Is(name string) (bool, error) {
	return as.IsWithAttrs(name, nil)
}

// IsWithAttrs reports whether the named type is active at the current
// selection, additionally requiring the given attribute values for node
// types. Attribute constraints on mark queries match against mark attrs.
func (as *ActiveSet) IsWithAttrs(name string, attrs map[string]any) (bool, error) {
	m := as.m
	if err := m.requireView(); err != nil {
		return false, err
	}

	m.mu.RLock()
	entry, ok := m.active[name]
	view := m.view
	m.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("%q: %w", name, ErrUnknownActive)
	}

	state := view.State()
	switch entry.kind {
	case extension.KindMark:
		return markActive(state, name, attrs), nil
	default:
		return nodeActive(state, name, attrs), nil
	}
}

// markActive reports whether a mark of the given type (and attrs, if
// any) is present anywhere in the selection. An empty selection checks
// the marks that would apply to typed text at the cursor.
func markActive(state *document.State, name string, attrs map[string]any) bool {
	sel := state.Selection()
	if sel.Empty() {
		return marksMatch(state.MarksAt(sel.From()), name, attrs)
	}
	from, to := sel.From(), sel.To()
	for _, span := range state.Doc().TextSpans() {
		if span.To <= from || span.From >= to {
			continue
		}
		if marksMatch(span.Node.Marks, name, attrs) {
			return true
		}
	}
	return false
}

func marksMatch(marks []document.Mark, name string, attrs map[string]any) bool {
	for _, m := range marks {
		if m.Type == name && attrsMatch(m.Attrs, attrs) {
			return true
		}
	}
	return false
}

// nodeActive reports whether a node of the given type overlaps the
// selection, matching the attribute constraints if supplied.
func nodeActive(state *document.State, name string, attrs map[string]any) bool {
	sel := state.Selection()
	from, to := sel.From(), sel.To()
	for _, span := range state.Doc().BlockSpans() {
		if span.Node.Type != name {
			continue
		}
		if span.To < from || span.From > to {
			continue
		}
		if attrsMatch(span.Node.Attrs, attrs) {
			return true
		}
	}
	return false
}

// attrsMatch reports whether every constraint key equals the node's
// attribute value.
func attrsMatch(have map[string]any, want map[string]any) bool {
	for k, v := range want {
		if !reflect.DeepEqual(have[k], v) {
			return false
		}
	}
	return true
}
