package extension

import (
	"fmt"
	"sort"
)

// PriorityOf returns an extension's load priority, or 0 when it declares
// none.
func PriorityOf(e Extension) int {
	if p, ok := e.(Prioritized); ok {
		return p.Priority()
	}
	return 0
}

// Resolve produces the canonical extension order: higher priority first,
// equal priorities keeping their input order. The same order governs
// schema merge, hook execution, and keymap precedence (earlier wins).
// Resolve never fails; name collisions are caught by CheckNames.
func Resolve(exts []Extension) []Extension {
	out := make([]Extension, len(exts))
	copy(out, exts)
	sort.SliceStable(out, func(i, j int) bool {
		return PriorityOf(out[i]) > PriorityOf(out[j])
	})
	return out
}

// CheckNames verifies that every extension name is unique. The error
// names the colliding extensions by name, kind, and input position.
func CheckNames(exts []Extension) error {
	seen := make(map[string]int, len(exts))
	for i, e := range exts {
		if first, dup := seen[e.Name()]; dup {
			return fmt.Errorf("extension name %q used by %s extension at position %d and %s extension at position %d",
				e.Name(), exts[first].Kind(), first, e.Kind(), i)
		}
		seen[e.Name()] = i
	}
	return nil
}

// WithTag returns the extensions carrying the given capability tag, in
// input order.
func WithTag(exts []Extension, tag Tag) []Extension {
	var out []Extension
	for _, e := range exts {
		t, ok := e.(Tagged)
		if !ok {
			continue
		}
		for _, have := range t.Tags() {
			if have == tag {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// OptionsOf returns an extension's merged options, or an empty record.
func OptionsOf(e Extension) Options {
	if c, ok := e.(Configured); ok {
		return c.Options()
	}
	return Options{}
}
