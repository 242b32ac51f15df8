// Package document provides the document model consumed by the extension
// composition layer: a tree-structured document, marks, selections, and
// transactions built from discrete steps.
//
// Positions are rune offsets into the document's flattened text content.
// Block structure does not contribute to position arithmetic; a position p
// addresses the p-th rune of the concatenated text of all text nodes in
// document order.
//
// The package is deliberately small. It is the fixed capability the
// composition layer builds on, not a full editing engine.
package document
