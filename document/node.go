package document

import (
	"reflect"
	"strings"
)

// TextType is the reserved type name for text leaf nodes.
const TextType = "text"

// Mark is an annotation attached to a span of text (bold, italic, a link).
type Mark struct {
	Type  string
	Attrs map[string]any
}

// Eq reports whether two marks have the same type and attributes.
func (m Mark) Eq(other Mark) bool {
	if m.Type != other.Type {
		return false
	}
	if len(m.Attrs) == 0 && len(other.Attrs) == 0 {
		return true
	}
	return reflect.DeepEqual(m.Attrs, other.Attrs)
}

// MarksContain reports whether marks includes a mark of the given type.
func MarksContain(marks []Mark, typeName string) bool {
	for _, m := range marks {
		if m.Type == typeName {
			return true
		}
	}
	return false
}

// addMark returns marks with m appended, unless a mark of the same type is
// already present.
func addMark(marks []Mark, m Mark) []Mark {
	if MarksContain(marks, m.Type) {
		return marks
	}
	out := make([]Mark, len(marks), len(marks)+1)
	copy(out, marks)
	return append(out, m)
}

// removeMark returns marks without any mark of the given type.
func removeMark(marks []Mark, typeName string) []Mark {
	out := make([]Mark, 0, len(marks))
	for _, m := range marks {
		if m.Type != typeName {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Node is a document node. Text nodes carry Text and Marks; all other
// nodes carry Children.
type Node struct {
	Type     string
	Attrs    map[string]any
	Text     string
	Marks    []Mark
	Children []*Node
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool {
	return n.Type == TextType
}

// TextLen returns the rune length of a text node, or 0 for other nodes.
func (n *Node) TextLen() int {
	if !n.IsText() {
		return 0
	}
	return len([]rune(n.Text))
}

// Size returns the total rune length of all text content in the subtree.
func (n *Node) Size() int {
	if n.IsText() {
		return n.TextLen()
	}
	size := 0
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	out := &Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		out.Attrs = make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		copy(out.Marks, n.Marks)
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// TextSpan is a text node located at an absolute position range.
type TextSpan struct {
	Node *Node
	From int
	To   int
}

// TextSpans returns every text node in the subtree with its absolute
// position range, in document order.
func (n *Node) TextSpans() []TextSpan {
	var spans []TextSpan
	collectSpans(n, 0, &spans)
	return spans
}

func collectSpans(n *Node, pos int, spans *[]TextSpan) int {
	if n.IsText() {
		end := pos + n.TextLen()
		*spans = append(*spans, TextSpan{Node: n, From: pos, To: end})
		return end
	}
	for _, c := range n.Children {
		pos = collectSpans(c, pos, spans)
	}
	return pos
}

// BlockSpan is a non-text node located at an absolute position range.
type BlockSpan struct {
	Node *Node
	From int
	To   int
}

// BlockSpans returns every non-text node in the subtree (including n
// itself) with its absolute position range, in document order.
func (n *Node) BlockSpans() []BlockSpan {
	var spans []BlockSpan
	collectBlocks(n, 0, &spans)
	return spans
}

func collectBlocks(n *Node, pos int, spans *[]BlockSpan) int {
	if n.IsText() {
		return pos + n.TextLen()
	}
	start := pos
	idx := len(*spans)
	*spans = append(*spans, BlockSpan{Node: n, From: start})
	for _, c := range n.Children {
		pos = collectBlocks(c, pos, spans)
	}
	(*spans)[idx].To = pos
	return pos
}
