// Package manager orchestrates a set of extensions into one editor
// runtime: it resolves extension order, assembles the document schema,
// builds the command, helper, and active-state surfaces, and drives the
// lifecycle phases Idle -> Created -> ViewAttached -> Destroyed.
//
// Commands and helpers are queryable only after a view is attached.
// Teardown runs extension destroy hooks in reverse creation order.
package manager
