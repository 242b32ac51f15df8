// Package extensions provides the built-in extension set: the document
// skeleton nodes (doc, text, paragraph, heading), the basic formatting
// marks (bold, italic, code), and the core extension carrying content
// handlers, shared commands, and helpers.
//
// These are examples of the extension contract as much as they are
// usable building blocks; custom extensions follow the same shapes.
package extensions
