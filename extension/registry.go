package extension

// CommandOptions is the metadata attached to a registered command.
type CommandOptions struct {
	// DisableChaining keeps the command off the chain surface. The
	// command remains available on the direct surface.
	DisableChaining bool

	// Description documents the command.
	Description string
}

// CommandRecord is one registered command: name, metadata, and the bound
// function.
type CommandRecord struct {
	Name    string
	Options CommandOptions
	Fn      Command
}

// HelperRecord is one registered helper.
type HelperRecord struct {
	Name string
	Fn   Helper
}

// Registry collects an extension's declared commands, helpers, and
// keybindings. Extensions call the Register methods during construction;
// the manager reads the records when building its surfaces. Registration
// attaches metadata only - nothing is invoked.
//
// Registry is the explicit-registration equivalent of an annotation
// mechanism: each call appends a record keyed by name, preserving
// registration order.
type Registry struct {
	commands    []CommandRecord
	helpers     []HelperRecord
	keybindings []Keybinding
}

// RegisterCommand declares a command with metadata.
func (r *Registry) RegisterCommand(name string, opts CommandOptions, fn Command) {
	r.commands = append(r.commands, CommandRecord{Name: name, Options: opts, Fn: fn})
}

// RegisterHelper declares a helper. Helpers must not mutate state; this
// is a documented contract, not a runtime check.
func (r *Registry) RegisterHelper(name string, fn Helper) {
	r.helpers = append(r.helpers, HelperRecord{Name: name, Fn: fn})
}

// RegisterKeybinding declares a keybinding.
func (r *Registry) RegisterKeybinding(kb Keybinding) {
	r.keybindings = append(r.keybindings, kb)
}

// RegisteredCommands returns the command records in registration order.
func (r *Registry) RegisteredCommands() []CommandRecord {
	out := make([]CommandRecord, len(r.commands))
	copy(out, r.commands)
	return out
}

// RegisteredHelpers returns the helper records in registration order.
func (r *Registry) RegisteredHelpers() []HelperRecord {
	out := make([]HelperRecord, len(r.helpers))
	copy(out, r.helpers)
	return out
}

// RegisteredKeybindings returns the keybindings in registration order.
func (r *Registry) RegisteredKeybindings() []Keybinding {
	out := make([]Keybinding, len(r.keybindings))
	copy(out, r.keybindings)
	return out
}

// Decorated is implemented by extensions that carry a decoration
// registry. Base implements it.
type Decorated interface {
	RegisteredCommands() []CommandRecord
	RegisteredHelpers() []HelperRecord
	RegisteredKeybindings() []Keybinding
}
