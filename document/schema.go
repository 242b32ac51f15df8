package document

import (
	"fmt"
	"sort"
)

// AttributeSpec describes a single attribute of a node or mark type.
type AttributeSpec struct {
	// Default is the value used when the attribute is not supplied.
	Default any

	// Required marks the attribute as mandatory; constructing a node or
	// mark without it fails.
	Required bool
}

// NodeSpec describes a node type.
type NodeSpec struct {
	// Content is a content expression such as "block+" or "inline*".
	Content string

	// Group names the group this node belongs to ("block", "inline").
	Group string

	// Inline marks the node as inline content.
	Inline bool

	// Attrs describes the node's attributes.
	Attrs map[string]AttributeSpec

	// Tag is the tag used for HTML serialization (e.g. "p").
	Tag string

	// RenderTag, when set, computes the serialization tag from the node's
	// attributes (e.g. "h1".."h6" from a level attribute). Takes
	// precedence over Tag.
	RenderTag func(attrs map[string]any) string
}

// MarkSpec describes a mark type.
type MarkSpec struct {
	// Attrs describes the mark's attributes.
	Attrs map[string]AttributeSpec

	// Inclusive controls whether the mark extends to content inserted at
	// its boundary.
	Inclusive bool

	// Tag is the tag used for HTML serialization (e.g. "strong").
	Tag string
}

// Schema maps type names to node and mark specs. The insertion order of
// types is preserved so iteration is deterministic.
type Schema struct {
	nodes map[string]NodeSpec
	marks map[string]MarkSpec

	nodeOrder []string
	markOrder []string

	// TopNode is the type name of the document root. Defaults to "doc".
	TopNode string
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{
		nodes:   make(map[string]NodeSpec),
		marks:   make(map[string]MarkSpec),
		TopNode: "doc",
	}
}

// AddNode registers a node type. Registering a name twice is an error.
func (s *Schema) AddNode(name string, spec NodeSpec) error {
	if _, exists := s.nodes[name]; exists {
		return fmt.Errorf("node type %q: %w", name, ErrTypeExists)
	}
	if _, exists := s.marks[name]; exists {
		return fmt.Errorf("type %q already registered as a mark: %w", name, ErrTypeExists)
	}
	s.nodes[name] = spec
	s.nodeOrder = append(s.nodeOrder, name)
	return nil
}

// AddMark registers a mark type. Registering a name twice is an error.
func (s *Schema) AddMark(name string, spec MarkSpec) error {
	if _, exists := s.marks[name]; exists {
		return fmt.Errorf("mark type %q: %w", name, ErrTypeExists)
	}
	if _, exists := s.nodes[name]; exists {
		return fmt.Errorf("type %q already registered as a node: %w", name, ErrTypeExists)
	}
	s.marks[name] = spec
	s.markOrder = append(s.markOrder, name)
	return nil
}

// Node returns the spec for a node type.
func (s *Schema) Node(name string) (NodeSpec, bool) {
	spec, ok := s.nodes[name]
	return spec, ok
}

// Mark returns the spec for a mark type.
func (s *Schema) Mark(name string) (MarkSpec, bool) {
	spec, ok := s.marks[name]
	return spec, ok
}

// NodeNames returns node type names in registration order.
func (s *Schema) NodeNames() []string {
	out := make([]string, len(s.nodeOrder))
	copy(out, s.nodeOrder)
	return out
}

// MarkNames returns mark type names in registration order.
func (s *Schema) MarkNames() []string {
	out := make([]string, len(s.markOrder))
	copy(out, s.markOrder)
	return out
}

// MarkOf constructs a mark of the named type, filling in attribute
// defaults and validating required attributes.
func (s *Schema) MarkOf(name string, attrs map[string]any) (Mark, error) {
	spec, ok := s.marks[name]
	if !ok {
		return Mark{}, fmt.Errorf("mark type %q: %w", name, ErrUnknownType)
	}
	filled, err := fillAttrs(name, spec.Attrs, attrs)
	if err != nil {
		return Mark{}, err
	}
	return Mark{Type: name, Attrs: filled}, nil
}

// NodeOf constructs a node of the named type, filling in attribute
// defaults and validating required attributes.
func (s *Schema) NodeOf(name string, attrs map[string]any, children ...*Node) (*Node, error) {
	spec, ok := s.nodes[name]
	if !ok {
		return nil, fmt.Errorf("node type %q: %w", name, ErrUnknownType)
	}
	filled, err := fillAttrs(name, spec.Attrs, attrs)
	if err != nil {
		return nil, err
	}
	return &Node{Type: name, Attrs: filled, Children: children}, nil
}

// Text constructs a text node with the given marks.
func (s *Schema) Text(text string, marks ...Mark) *Node {
	return &Node{Type: TextType, Text: text, Marks: marks}
}

// fillAttrs merges supplied attributes over spec defaults, enforcing
// required attributes. Attribute names are checked in sorted order so
// error reporting is deterministic.
func fillAttrs(typeName string, specs map[string]AttributeSpec, attrs map[string]any) (map[string]any, error) {
	if len(specs) == 0 {
		if len(attrs) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("type %q accepts no attributes", typeName)
	}

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	filled := make(map[string]any, len(specs))
	for _, name := range names {
		spec := specs[name]
		if val, ok := attrs[name]; ok {
			filled[name] = val
			continue
		}
		if spec.Required {
			return nil, fmt.Errorf("type %q: missing required attribute %q", typeName, name)
		}
		filled[name] = spec.Default
	}
	for name := range attrs {
		if _, ok := specs[name]; !ok {
			return nil, fmt.Errorf("type %q: unknown attribute %q", typeName, name)
		}
	}
	return filled, nil
}
