package preset

import (
	"fmt"

	"github.com/dshills/inkwell/extension"
)

// Build instantiates every registered extension the config enables, in
// sorted name order so a config always produces the same input sequence.
// Load-order among the instances is still decided by their priorities.
// A config entry naming an unregistered extension fails the build.
func Build(reg *Registry, cfg *Config) ([]extension.Extension, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	for name := range cfg.Extensions {
		if _, ok := reg.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, name)
		}
	}

	var exts []extension.Extension
	for _, name := range reg.Names() {
		ec := cfg.Extensions[name]
		if !ec.enabled() {
			continue
		}
		factory, _ := reg.Lookup(name)
		ext, err := factory(extension.Options(ec.Options))
		if err != nil {
			return nil, fmt.Errorf("extension %q: %w", name, err)
		}
		if ec.Priority != nil {
			if p, ok := ext.(interface{ SetPriority(int) }); ok {
				p.SetPriority(*ec.Priority)
			}
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

// BuildFile loads a config file and builds its extension set.
func BuildFile(reg *Registry, path string) ([]extension.Extension, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(reg, cfg)
}
