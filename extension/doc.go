// Package extension defines the contract for composable editor behavior
// units: the Extension interface, the capability interfaces a unit may
// implement (commands, helpers, keymaps, input and paste rules, schema
// specs, lifecycle hooks), the decoration registry units use to declare
// contributions during construction, and the priority resolver that
// produces the canonical unit order.
//
// An extension contributes behavior declaratively; the manager package
// merges a set of extensions into one schema, command surface, helper
// surface, and keymap.
package extension
