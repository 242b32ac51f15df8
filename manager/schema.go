package manager

import (
	"fmt"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// assembleSchema merges every Mark and Node extension's schema fragment
// into one schema, iterating in resolved order. Fragments are keyed by
// extension name; a colliding key fails immediately naming both owners.
// Spec overrides supplied by a higher layer are merged over the produced
// fragment, override fields winning.
func assembleSchema(exts []extension.Extension, overrides map[string]*extension.SpecOverride) (*document.Schema, error) {
	schema := document.NewSchema()
	owners := make(map[string]string)

	for _, e := range exts {
		name := e.Name()
		ctx := &extension.SpecContext{
			Options:  extension.OptionsOf(e),
			Override: overrides[name],
		}

		switch e.Kind() {
		case extension.KindMark:
			var base document.MarkSpec
			if p, ok := e.(extension.MarkSpecProvider); ok {
				base = p.CreateMarkSpec(ctx)
			}
			spec := extension.MergeMarkSpec(base, ctx.Override)
			if owner, exists := owners[name]; exists {
				return nil, fmt.Errorf("%w: %q contributed by %q and %q", ErrDuplicateSchemaType, name, owner, name)
			}
			if err := schema.AddMark(name, spec); err != nil {
				return nil, fmt.Errorf("extension %q: %w", name, err)
			}
			owners[name] = name

		case extension.KindNode:
			var base document.NodeSpec
			if p, ok := e.(extension.NodeSpecProvider); ok {
				base = p.CreateNodeSpec(ctx)
			}
			spec := extension.MergeNodeSpec(base, ctx.Override)
			if owner, exists := owners[name]; exists {
				return nil, fmt.Errorf("%w: %q contributed by %q and %q", ErrDuplicateSchemaType, name, owner, name)
			}
			if err := schema.AddNode(name, spec); err != nil {
				return nil, fmt.Errorf("extension %q: %w", name, err)
			}
			owners[name] = name
		}
	}

	return schema, nil
}
