package extension

import (
	"regexp"

	"github.com/dshills/inkwell/document"
)

// Kind determines whether an extension contributes a schema fragment, and
// of which sort.
type Kind int

// Extension kinds.
const (
	// KindPlain contributes no schema fragment.
	KindPlain Kind = iota

	// KindMark contributes a mark spec under the extension's name.
	KindMark

	// KindNode contributes a node spec under the extension's name.
	KindNode
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindMark:
		return "mark"
	case KindNode:
		return "node"
	default:
		return "unknown"
	}
}

// Tag is a capability tag used for cross-cutting queries over extensions.
// Tags never influence dispatch.
type Tag string

// Common capability tags.
const (
	TagFontStyle      Tag = "fontStyle"
	TagCode           Tag = "code"
	TagFormattingMark Tag = "formattingMark"
	TagBlock          Tag = "block"
	TagBehavior       Tag = "behavior"
)

// Extension is a composable behavior unit. Name must be unique within a
// manager; Kind selects the schema contribution. Everything else is
// declared through optional capability interfaces.
type Extension interface {
	// Name returns the extension's unique identifier.
	Name() string

	// Kind returns the extension's schema kind.
	Kind() Kind
}

// Tagged is implemented by extensions that declare capability tags.
type Tagged interface {
	Tags() []Tag
}

// Prioritized is implemented by extensions with a non-default load
// priority. Higher priority loads first; equal priorities keep their
// registration order.
type Prioritized interface {
	Priority() int
}

// Configured is implemented by extensions carrying an options record.
type Configured interface {
	Options() Options
}

// CommandProvider declares commands via an explicit name-to-function map.
type CommandProvider interface {
	CreateCommands() map[string]Command
}

// HelperProvider declares helpers via an explicit name-to-function map.
type HelperProvider interface {
	CreateHelpers() map[string]Helper
}

// KeymapProvider declares keybindings.
type KeymapProvider interface {
	CreateKeymap() []Keybinding
}

// InputRuleProvider declares input rules applied to typed text.
type InputRuleProvider interface {
	CreateInputRules() []InputRule
}

// PasteRuleProvider declares paste rules applied to pasted content.
type PasteRuleProvider interface {
	CreatePasteRules() []PasteRule
}

// MarkSpecProvider produces the mark spec for a KindMark extension.
type MarkSpecProvider interface {
	CreateMarkSpec(ctx *SpecContext) document.MarkSpec
}

// NodeSpecProvider produces the node spec for a KindNode extension.
type NodeSpecProvider interface {
	CreateNodeSpec(ctx *SpecContext) document.NodeSpec
}

// CreateHook runs when the manager is constructed, before command and
// helper surfaces exist. Hooks may register content handlers and write
// to the store.
type CreateHook interface {
	OnCreate(rt Runtime) error
}

// ViewHook runs when a view is attached, after surfaces are built.
type ViewHook interface {
	OnView(rt Runtime) error
}

// DestroyHook runs at manager teardown, in reverse creation order.
type DestroyHook interface {
	OnDestroy(rt Runtime) error
}

// View is the handle binding a manager to a live document. It owns the
// current editor state and applies dispatched transactions.
type View interface {
	// State returns the current editor state.
	State() *document.State

	// Dispatch applies a transaction, replacing the current state.
	Dispatch(tr *document.Transaction)
}

// CommandContext carries everything a command needs. Dispatch is nil for
// a dry run: the command must only report applicability and leave all
// state untouched. When Dispatch is non-nil the command applies its
// effect to Tr; the surface that invoked it commits the transaction.
type CommandContext struct {
	// State is the editor state the command runs against.
	State *document.State

	// Tr is the transaction the command writes its steps into.
	Tr *document.Transaction

	// Dispatch commits a transaction. Nil signals a dry run.
	Dispatch func(tr *document.Transaction)

	// Args carries caller-supplied command arguments.
	Args map[string]any

	// Runtime exposes the manager's shared store.
	Runtime Runtime
}

// DryRun reports whether the command is being probed without dispatch.
func (c *CommandContext) DryRun() bool { return c.Dispatch == nil }

// Command is a named editor operation. It returns true if the command
// applies to the current state. Returning false is a normal outcome, not
// an error. Calling a command with a nil Dispatch must never change
// document state.
type Command func(ctx *CommandContext) bool

// Helper computes a read-only derived value from the current state.
// Helpers must not mutate anything.
type Helper func(state *document.State) any

// ContentHandler converts a content string (plain text, HTML) into a
// document fragment.
type ContentHandler func(content string, options map[string]any) (*document.Node, error)

// TransactionListener observes transactions after they are dispatched.
type TransactionListener func(tr *document.Transaction, state *document.State)

// Runtime is the shared store an extension sees during its lifecycle
// hooks and command execution. Writes are only permitted while one of
// the owning extension's hooks is running.
type Runtime interface {
	// State returns the current editor state, or nil before a view is
	// attached.
	State() *document.State

	// Schema returns the assembled schema.
	Schema() *document.Schema

	// SetContentHandler registers a named string-to-fragment handler.
	SetContentHandler(name string, h ContentHandler) error

	// ContentHandler looks up a registered handler.
	ContentHandler(name string) (ContentHandler, bool)

	// Set writes a value into the cross-extension key-value store.
	Set(key string, value any) error

	// Get reads a value from the cross-extension key-value store.
	Get(key string) (any, bool)

	// OnTransaction registers a listener for dispatched transactions.
	OnTransaction(fn TransactionListener) error
}

// Keybinding maps a key shortcut to a command.
type Keybinding struct {
	// Keys is the literal shortcut (e.g. "Mod-b").
	Keys string

	// KeysFunc, when set, computes the shortcut from the extension's
	// options and the shared store. Takes precedence over Keys.
	KeysFunc func(opts Options, rt Runtime) string

	// Command names the command this binding logically maps to, for
	// introspection.
	Command string

	// Handler is the function executed when the binding fires. When nil,
	// the named Command is executed instead.
	Handler Command

	// Args are fixed arguments passed to the handler.
	Args map[string]any

	// When gates the binding on a state predicate.
	When func(state *document.State) bool

	// Priority overrides precedence among conflicting bindings. Higher
	// wins; ties fall back to extension order.
	Priority int

	// Description documents the binding.
	Description string
}

// InputRule rewrites typed text matching a pattern.
type InputRule struct {
	// Find matches the typed text.
	Find *regexp.Regexp

	// Handler applies the rewrite. Match holds the regexp submatches.
	Handler func(ctx *CommandContext, match []string) bool
}

// PasteRule rewrites pasted content matching a pattern.
type PasteRule struct {
	// Find matches the pasted content.
	Find *regexp.Regexp

	// Handler applies the rewrite. Match holds the regexp submatches.
	Handler func(ctx *CommandContext, match []string) bool
}

// SpecOverride adjusts a produced mark or node spec without modifying the
// extension, letting a higher layer (a preset) tune lower-layer output.
// Set fields win over the extension's own values.
type SpecOverride struct {
	Tag       string
	Content   string
	Group     string
	Inline    *bool
	Inclusive *bool
	Attrs     map[string]document.AttributeSpec
}

// SpecContext is handed to spec-producing methods: the extension's
// merged options plus utilities for the two-stage override merge.
type SpecContext struct {
	// Options is the extension's merged options record.
	Options Options

	// Override is the forced override applied on top of the produced
	// spec, or nil.
	Override *SpecOverride
}

// MergeMarkSpec applies an override onto a base mark spec, field by field.
func MergeMarkSpec(base document.MarkSpec, ov *SpecOverride) document.MarkSpec {
	if ov == nil {
		return base
	}
	if ov.Tag != "" {
		base.Tag = ov.Tag
	}
	if ov.Inclusive != nil {
		base.Inclusive = *ov.Inclusive
	}
	if ov.Attrs != nil {
		base.Attrs = ov.Attrs
	}
	return base
}

// MergeNodeSpec applies an override onto a base node spec, field by field.
func MergeNodeSpec(base document.NodeSpec, ov *SpecOverride) document.NodeSpec {
	if ov == nil {
		return base
	}
	if ov.Tag != "" {
		base.Tag = ov.Tag
	}
	if ov.Content != "" {
		base.Content = ov.Content
	}
	if ov.Group != "" {
		base.Group = ov.Group
	}
	if ov.Inline != nil {
		base.Inline = *ov.Inline
	}
	if ov.Attrs != nil {
		base.Attrs = ov.Attrs
	}
	return base
}
