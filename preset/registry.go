package preset

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/inkwell/extension"
	"github.com/dshills/inkwell/extensions"
)

// Registry errors.
var (
	ErrFactoryExists  = errors.New("extension factory already registered")
	ErrUnknownFactory = errors.New("unknown extension factory")
)

// Factory constructs a fresh extension instance from an options record.
// Extensions bind to one manager for life, so presets need a new
// instance per build.
type Factory func(opts extension.Options) (extension.Extension, error)

// Registry maps extension names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under a name. Registering a name twice fails.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrFactoryExists, name)
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the factory for a name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a registry holding the standard extension set. The
// map is assembled directly so construction cannot fail on a name
// collision.
func Builtin() *Registry {
	plain := func(build func() extension.Extension) Factory {
		return func(extension.Options) (extension.Extension, error) {
			return build(), nil
		}
	}
	configured := func(build func(extension.Options) extension.Extension) Factory {
		return func(opts extension.Options) (extension.Extension, error) {
			return build(opts), nil
		}
	}

	return &Registry{factories: map[string]Factory{
		"core":      plain(func() extension.Extension { return extensions.NewCore() }),
		"doc":       plain(func() extension.Extension { return extensions.NewDoc() }),
		"text":      plain(func() extension.Extension { return extensions.NewText() }),
		"paragraph": configured(func(o extension.Options) extension.Extension { return extensions.NewParagraph(o) }),
		"heading":   configured(func(o extension.Options) extension.Extension { return extensions.NewHeading(o) }),
		"bold":      configured(func(o extension.Options) extension.Extension { return extensions.NewBold(o) }),
		"italic":    configured(func(o extension.Options) extension.Extension { return extensions.NewItalic(o) }),
		"code":      configured(func(o extension.Options) extension.Extension { return extensions.NewCode(o) }),
	}}
}
