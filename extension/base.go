package extension

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAlreadyBound is returned when an extension is registered with a
// second manager.
var ErrAlreadyBound = errors.New("extension already bound to a manager")

// Base is the common implementation embedded by concrete extensions. It
// provides identity, tags, priority, the merged options record, and the
// decoration registry.
type Base struct {
	Registry

	mu       sync.Mutex
	name     string
	kind     Kind
	tags     []Tag
	priority int
	options  Options
	owner    any
}

// BaseOption configures a Base.
type BaseOption func(*Base)

// WithTags sets the extension's capability tags.
func WithTags(tags ...Tag) BaseOption {
	return func(b *Base) {
		b.tags = tags
	}
}

// WithPriority sets the load priority. Higher priority loads first.
func WithPriority(p int) BaseOption {
	return func(b *Base) {
		b.priority = p
	}
}

// WithDefaults sets the extension's default options.
func WithDefaults(defaults Options) BaseOption {
	return func(b *Base) {
		b.options = defaults.Merge(b.options)
	}
}

// WithOptions layers caller-supplied option overrides over the defaults.
func WithOptions(overrides Options) BaseOption {
	return func(b *Base) {
		b.options = b.options.Merge(overrides)
	}
}

// NewBase creates the embedded core of an extension.
func NewBase(name string, kind Kind, opts ...BaseOption) *Base {
	b := &Base{name: name, kind: kind, options: Options{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements Extension.
func (b *Base) Name() string { return b.name }

// Kind implements Extension.
func (b *Base) Kind() Kind { return b.kind }

// Tags implements Tagged.
func (b *Base) Tags() []Tag {
	out := make([]Tag, len(b.tags))
	copy(out, b.tags)
	return out
}

// Priority implements Prioritized.
func (b *Base) Priority() int { return b.priority }

// SetPriority overrides the load priority. Call before the extension is
// handed to a manager; presets use this to reorder extensions from
// configuration.
func (b *Base) SetPriority(p int) { b.priority = p }

// Options implements Configured.
func (b *Base) Options() Options { return b.options.Clone() }

// HasTag reports whether the extension carries the given tag.
func (b *Base) HasTag(tag Tag) bool {
	for _, t := range b.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Bind attaches the extension to its owning manager. An extension belongs
// to exactly one manager for its lifetime; a second Bind fails.
func (b *Base) Bind(owner any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.owner != nil {
		return fmt.Errorf("extension %q: %w", b.name, ErrAlreadyBound)
	}
	b.owner = owner
	return nil
}

// Release detaches the extension from its manager at teardown.
func (b *Base) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owner = nil
}

// Binder is implemented by extensions that track their owning manager.
// Base implements it; the manager calls Bind at construction and Release
// at destruction.
type Binder interface {
	Bind(owner any) error
	Release()
}
