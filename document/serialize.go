package document

import (
	"fmt"
	"strings"
)

// ToHTML renders a document using the Tag/RenderTag fields of the schema
// specs. Marks are nested in schema registration order. The output is a
// plain approximation, not a faithful DOM serialization.
func ToHTML(schema *Schema, doc *Node) string {
	var b strings.Builder
	for _, c := range doc.Children {
		renderNode(schema, c, &b)
	}
	return b.String()
}

func renderNode(schema *Schema, n *Node, b *strings.Builder) {
	if n.IsText() {
		renderText(schema, n, b)
		return
	}

	tag := ""
	if spec, ok := schema.Node(n.Type); ok {
		tag = spec.Tag
		if spec.RenderTag != nil {
			tag = spec.RenderTag(n.Attrs)
		}
	}
	if tag != "" {
		fmt.Fprintf(b, "<%s>", tag)
	}
	for _, c := range n.Children {
		renderNode(schema, c, b)
	}
	if tag != "" {
		fmt.Fprintf(b, "</%s>", tag)
	}
}

func renderText(schema *Schema, n *Node, b *strings.Builder) {
	var open []string
	for _, name := range schema.MarkNames() {
		if !MarksContain(n.Marks, name) {
			continue
		}
		spec, _ := schema.Mark(name)
		if spec.Tag == "" {
			continue
		}
		fmt.Fprintf(b, "<%s>", spec.Tag)
		open = append(open, spec.Tag)
	}
	b.WriteString(escapeText(n.Text))
	for i := len(open) - 1; i >= 0; i-- {
		fmt.Fprintf(b, "</%s>", open[i])
	}
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// FromText builds a single-paragraph document from a plain string.
func FromText(schema *Schema, text string) (*Node, error) {
	para, err := schema.NodeOf("paragraph", nil, schema.Text(text))
	if err != nil {
		return nil, err
	}
	return schema.NodeOf(schema.TopNode, nil, para)
}
