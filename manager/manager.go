package manager

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// Manager owns a set of extensions and everything assembled from them:
// the schema, the command and helper surfaces, the keymap, and the shared
// store. Extensions belong to exactly one manager for its lifetime.
type Manager struct {
	mu sync.RWMutex

	phase Phase

	// Extensions in resolved order (higher priority first).
	exts []extension.Extension

	schema *document.Schema
	store  *Store
	view   extension.View

	commands map[string]commandEntry
	helpers  map[string]helperEntry
	active   map[string]activeEntry
	keymap   []boundKey

	inputRules []boundRule
	pasteRules []boundRule

	overrides map[string]*extension.SpecOverride
}

// commandEntry is a collected command with its owner and chain policy.
type commandEntry struct {
	fn        extension.Command
	owner     string
	chainable bool
}

// helperEntry is a collected helper with its owner.
type helperEntry struct {
	fn    extension.Helper
	owner string
}

// boundKey is a keybinding with its shortcut resolved and owner recorded.
type boundKey struct {
	extension.Keybinding
	keys  string
	owner string
}

// boundRule is an input or paste rule with its owner recorded.
type boundRule struct {
	find    *regexp.Regexp
	handler func(ctx *extension.CommandContext, match []string) bool
	owner   string
}

// Option configures a Manager before construction runs.
type Option func(*Manager)

// WithSpecOverride forces override fields onto the named extension's
// produced schema fragment. This lets a preset adjust an extension's
// output without modifying the extension.
func WithSpecOverride(extensionName string, ov extension.SpecOverride) Option {
	return func(m *Manager) {
		m.overrides[extensionName] = &ov
	}
}

// New constructs a manager over the given extensions: validates name
// uniqueness, resolves order, assembles the schema, and runs each
// extension's create hook in resolved order. Create hooks may register
// content handlers and write to the store; command and helper surfaces
// do not exist yet.
//
// Configuration errors (duplicate names, failing hooks) abort
// construction and unbind any already-bound extensions.
func New(exts []extension.Extension, opts ...Option) (*Manager, error) {
	if err := extension.CheckNames(exts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateExtension, err)
	}

	m := &Manager{
		phase:     PhaseCreated,
		overrides: make(map[string]*extension.SpecOverride),
	}
	for _, opt := range opts {
		opt(m)
	}

	var bound []extension.Binder
	unbind := func() {
		for _, b := range bound {
			b.Release()
		}
	}
	for _, e := range exts {
		if b, ok := e.(extension.Binder); ok {
			if err := b.Bind(m); err != nil {
				unbind()
				return nil, err
			}
			bound = append(bound, b)
		}
	}

	m.exts = extension.Resolve(exts)

	schema, err := assembleSchema(m.exts, m.overrides)
	if err != nil {
		unbind()
		return nil, err
	}
	m.schema = schema
	m.store = newStore(m)

	for _, e := range m.exts {
		hook, ok := e.(extension.CreateHook)
		if !ok {
			continue
		}
		m.store.beginHook(e.Name())
		err := hook.OnCreate(m.store)
		m.store.endHook()
		if err != nil {
			unbind()
			return nil, fmt.Errorf("extension %q create hook: %w", e.Name(), err)
		}
	}

	return m, nil
}

// Phase returns the manager's lifecycle phase.
func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Extensions returns the extensions in resolved order.
func (m *Manager) Extensions() []extension.Extension {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]extension.Extension, len(m.exts))
	copy(out, m.exts)
	return out
}

// Schema returns the assembled schema. Available from construction.
func (m *Manager) Schema() *document.Schema {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.schema
}

// Store returns the shared store.
func (m *Manager) Store() *Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// View returns the attached view, or nil.
func (m *Manager) View() extension.View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view
}

// viewState returns the current state, or nil before attach.
func (m *Manager) viewState() *document.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.view == nil {
		return nil
	}
	return m.view.State()
}

// AttachView binds a view to the manager. This builds the command,
// helper, and active-state surfaces, resolves the keymap, freezes the
// store keys backing the command and helper namespaces, and runs each
// extension's view hook in resolved order. Surfaces become queryable
// once AttachView returns.
func (m *Manager) AttachView(v extension.View) error {
	if v == nil {
		return ErrNilView
	}

	m.mu.Lock()
	switch m.phase {
	case PhaseDestroyed:
		m.mu.Unlock()
		return ErrManagerDestroyed
	case PhaseViewAttached:
		m.mu.Unlock()
		return ErrViewAttached
	}
	m.view = v

	if err := m.buildSurfaces(); err != nil {
		m.view = nil
		m.mu.Unlock()
		return err
	}
	m.buildActive()
	m.buildKeymap()
	m.buildRules()

	frozen := make([]string, 0, len(m.commands)+len(m.helpers))
	for name := range m.commands {
		frozen = append(frozen, name)
	}
	for name := range m.helpers {
		frozen = append(frozen, name)
	}
	exts := m.exts
	store := m.store
	m.phase = PhaseViewAttached
	m.mu.Unlock()

	store.freeze(frozen...)

	// View hooks run outside the manager lock; they may query surfaces.
	for _, e := range exts {
		hook, ok := e.(extension.ViewHook)
		if !ok {
			continue
		}
		store.beginHook(e.Name())
		err := hook.OnView(store)
		store.endHook()
		if err != nil {
			return fmt.Errorf("extension %q view hook: %w", e.Name(), err)
		}
	}

	return nil
}

// buildSurfaces collects commands and helpers from every extension in
// resolved order. Each extension contributes through its explicit
// Create* method and through its decoration registry; a duplicate name
// from any source fails naming both owners. Callers hold m.mu.
func (m *Manager) buildSurfaces() error {
	m.commands = make(map[string]commandEntry)
	m.helpers = make(map[string]helperEntry)

	addCommand := func(name string, owner string, opts extension.CommandOptions, fn extension.Command) error {
		if prev, exists := m.commands[name]; exists {
			return fmt.Errorf("%w: %q declared by %q and %q", ErrDuplicateCommand, name, prev.owner, owner)
		}
		m.commands[name] = commandEntry{fn: fn, owner: owner, chainable: !opts.DisableChaining}
		return nil
	}
	addHelper := func(name string, owner string, fn extension.Helper) error {
		if prev, exists := m.helpers[name]; exists {
			return fmt.Errorf("%w: %q declared by %q and %q", ErrDuplicateHelper, name, prev.owner, owner)
		}
		m.helpers[name] = helperEntry{fn: fn, owner: owner}
		return nil
	}

	for _, e := range m.exts {
		owner := e.Name()

		if cp, ok := e.(extension.CommandProvider); ok {
			cmds := cp.CreateCommands()
			for _, name := range sortedKeys(cmds) {
				if err := addCommand(name, owner, extension.CommandOptions{}, cmds[name]); err != nil {
					return err
				}
			}
		}
		if hp, ok := e.(extension.HelperProvider); ok {
			helpers := hp.CreateHelpers()
			for _, name := range sortedKeys(helpers) {
				if err := addHelper(name, owner, helpers[name]); err != nil {
					return err
				}
			}
		}
		if d, ok := e.(extension.Decorated); ok {
			for _, rec := range d.RegisteredCommands() {
				if err := addCommand(rec.Name, owner, rec.Options, rec.Fn); err != nil {
					return err
				}
			}
			for _, rec := range d.RegisteredHelpers() {
				if err := addHelper(rec.Name, owner, rec.Fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// buildKeymap resolves every keybinding's shortcut and orders bindings by
// precedence: binding priority first, then extension order. Earlier
// bindings win shortcut conflicts. Callers hold m.mu.
func (m *Manager) buildKeymap() {
	m.keymap = nil
	for _, e := range m.exts {
		opts := extension.OptionsOf(e)
		var bindings []extension.Keybinding
		if kp, ok := e.(extension.KeymapProvider); ok {
			bindings = append(bindings, kp.CreateKeymap()...)
		}
		if d, ok := e.(extension.Decorated); ok {
			bindings = append(bindings, d.RegisteredKeybindings()...)
		}
		for _, kb := range bindings {
			keys := kb.Keys
			if kb.KeysFunc != nil {
				keys = kb.KeysFunc(opts, m.store)
			}
			if keys == "" {
				continue
			}
			m.keymap = append(m.keymap, boundKey{Keybinding: kb, keys: keys, owner: e.Name()})
		}
	}
	sort.SliceStable(m.keymap, func(i, j int) bool {
		return m.keymap[i].Priority > m.keymap[j].Priority
	})
}

// buildRules collects input and paste rules in resolved order. Callers
// hold m.mu.
func (m *Manager) buildRules() {
	m.inputRules = nil
	m.pasteRules = nil
	for _, e := range m.exts {
		if ip, ok := e.(extension.InputRuleProvider); ok {
			for _, r := range ip.CreateInputRules() {
				m.inputRules = append(m.inputRules, boundRule{find: r.Find, handler: r.Handler, owner: e.Name()})
			}
		}
		if pp, ok := e.(extension.PasteRuleProvider); ok {
			for _, r := range pp.CreatePasteRules() {
				m.pasteRules = append(m.pasteRules, boundRule{find: r.Find, handler: r.Handler, owner: e.Name()})
			}
		}
	}
}

// Destroy tears the manager down: destroy hooks run in reverse resolved
// order, extensions are released, and the store is dropped. Every
// operation afterward fails with ErrManagerDestroyed.
func (m *Manager) Destroy() error {
	m.mu.Lock()
	if m.phase == PhaseDestroyed {
		m.mu.Unlock()
		return ErrManagerDestroyed
	}
	exts := m.exts
	store := m.store
	m.phase = PhaseDestroyed
	m.mu.Unlock()

	var firstErr error
	for i := len(exts) - 1; i >= 0; i-- {
		e := exts[i]
		if hook, ok := e.(extension.DestroyHook); ok {
			store.beginHook(e.Name())
			err := hook.OnDestroy(store)
			store.endHook()
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("extension %q destroy hook: %w", e.Name(), err)
			}
		}
		if b, ok := e.(extension.Binder); ok {
			b.Release()
		}
	}

	store.release()

	m.mu.Lock()
	m.exts = nil
	m.commands = nil
	m.helpers = nil
	m.active = nil
	m.keymap = nil
	m.inputRules = nil
	m.pasteRules = nil
	m.view = nil
	m.mu.Unlock()

	return firstErr
}

// requireView gates view-dependent operations on the lifecycle phase.
// Callers hold no lock.
func (m *Manager) requireView() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch m.phase {
	case PhaseDestroyed:
		return ErrManagerDestroyed
	case PhaseViewAttached:
		return nil
	default:
		return ErrViewNotAttached
	}
}

// dispatch commits a transaction through the view and notifies
// transaction listeners. Exactly one state change per call.
func (m *Manager) dispatch(tr *document.Transaction) {
	m.mu.RLock()
	view := m.view
	store := m.store
	m.mu.RUnlock()
	if view == nil {
		return
	}
	view.Dispatch(tr)
	store.notify(tr, view.State())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
