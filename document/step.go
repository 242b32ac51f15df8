package document

import "fmt"

// Step is one atomic document change. Applying a step never mutates the
// input document; it returns a new tree.
type Step interface {
	// Name returns the step's type name, used for serialization.
	Name() string

	// Apply produces a new document with the step's change applied.
	Apply(doc *Node) (*Node, error)
}

// AddMarkStep adds a mark to the text in [From, To).
type AddMarkStep struct {
	From int
	To   int
	Mark Mark
}

// Name implements Step.
func (s *AddMarkStep) Name() string { return "addMark" }

// Apply implements Step.
func (s *AddMarkStep) Apply(doc *Node) (*Node, error) {
	if err := checkRange(s.From, s.To, doc.Size()); err != nil {
		return nil, err
	}
	return transformText(doc, s.From, s.To, func(marks []Mark) []Mark {
		return addMark(marks, s.Mark)
	}), nil
}

// RemoveMarkStep removes all marks of Mark's type from the text in [From, To).
type RemoveMarkStep struct {
	From int
	To   int
	Mark Mark
}

// Name implements Step.
func (s *RemoveMarkStep) Name() string { return "removeMark" }

// Apply implements Step.
func (s *RemoveMarkStep) Apply(doc *Node) (*Node, error) {
	if err := checkRange(s.From, s.To, doc.Size()); err != nil {
		return nil, err
	}
	return transformText(doc, s.From, s.To, func(marks []Mark) []Mark {
		return removeMark(marks, s.Mark.Type)
	}), nil
}

// InsertTextStep inserts text at a position.
type InsertTextStep struct {
	At    int
	Text  string
	Marks []Mark
}

// Name implements Step.
func (s *InsertTextStep) Name() string { return "insertText" }

// Apply implements Step.
func (s *InsertTextStep) Apply(doc *Node) (*Node, error) {
	if s.At < 0 || s.At > doc.Size() {
		return nil, fmt.Errorf("insert at %d in document of size %d: %w", s.At, doc.Size(), ErrRangeInvalid)
	}
	out := doc.Clone()
	if insertText(out, s.At, s.Text, s.Marks) {
		return out, nil
	}
	// Empty document: drop the text into the deepest last container.
	target := deepestContainer(out)
	target.Children = append(target.Children, &Node{Type: TextType, Text: s.Text, Marks: s.Marks})
	return out, nil
}

// DeleteStep removes the text in [From, To).
type DeleteStep struct {
	From int
	To   int
}

// Name implements Step.
func (s *DeleteStep) Name() string { return "delete" }

// Apply implements Step.
func (s *DeleteStep) Apply(doc *Node) (*Node, error) {
	if err := checkRange(s.From, s.To, doc.Size()); err != nil {
		return nil, err
	}
	out := doc.Clone()
	deleteRange(out, 0, s.From, s.To)
	return out, nil
}

// SetBlockTypeStep changes the type and attributes of every innermost
// block overlapping [From, To].
type SetBlockTypeStep struct {
	From     int
	To       int
	NodeType string
	Attrs    map[string]any
}

// Name implements Step.
func (s *SetBlockTypeStep) Name() string { return "setBlockType" }

// Apply implements Step.
func (s *SetBlockTypeStep) Apply(doc *Node) (*Node, error) {
	if s.To < s.From {
		return nil, fmt.Errorf("range [%d,%d): %w", s.From, s.To, ErrRangeInvalid)
	}
	out := doc.Clone()
	for _, span := range out.BlockSpans() {
		if span.Node == out || !isTextblock(span.Node) {
			continue
		}
		// Empty blocks occupy a single position at their start.
		if span.From == span.To && (span.From < s.From || span.From > s.To) {
			continue
		}
		if span.From != span.To && (span.To <= s.From || span.From > s.To) {
			continue
		}
		span.Node.Type = s.NodeType
		span.Node.Attrs = s.Attrs
	}
	return out, nil
}

func checkRange(from, to, size int) error {
	if from < 0 || to < from || to > size {
		return fmt.Errorf("range [%d,%d) in document of size %d: %w", from, to, size, ErrRangeInvalid)
	}
	return nil
}

// isTextblock reports whether a node directly contains text (or is an
// empty non-root container).
func isTextblock(n *Node) bool {
	if n.IsText() {
		return false
	}
	for _, c := range n.Children {
		if !c.IsText() {
			return false
		}
	}
	return true
}

// transformText rebuilds the tree, splitting text nodes that partially
// overlap [from, to) and rewriting the marks of covered segments.
func transformText(n *Node, from, to int, fn func([]Mark) []Mark) *Node {
	out, _ := transformAt(n, 0, from, to, fn)
	return out
}

func transformAt(n *Node, pos, from, to int, fn func([]Mark) []Mark) (*Node, int) {
	if n.IsText() {
		end := pos + n.TextLen()
		if end <= from || pos >= to {
			return n.Clone(), end
		}
		runes := []rune(n.Text)
		lo := max(from, pos) - pos
		hi := min(to, end) - pos

		covered := &Node{Type: TextType, Text: string(runes[lo:hi]), Marks: fn(cloneMarks(n.Marks))}
		pieces := make([]*Node, 0, 3)
		if lo > 0 {
			pieces = append(pieces, &Node{Type: TextType, Text: string(runes[:lo]), Marks: cloneMarks(n.Marks)})
		}
		pieces = append(pieces, covered)
		if hi < len(runes) {
			pieces = append(pieces, &Node{Type: TextType, Text: string(runes[hi:]), Marks: cloneMarks(n.Marks)})
		}
		if len(pieces) == 1 {
			return pieces[0], end
		}
		// Splits are spliced into the parent by the caller via a wrapper.
		return &Node{Type: spliceType, Children: pieces}, end
	}

	out := n.Clone()
	out.Children = out.Children[:0]
	for _, c := range n.Children {
		var child *Node
		child, pos = transformAt(c, pos, from, to, fn)
		if child.Type == spliceType {
			out.Children = append(out.Children, child.Children...)
		} else {
			out.Children = append(out.Children, child)
		}
	}
	return out, pos
}

// spliceType is an internal marker for a split text node awaiting splicing
// into its parent. It never appears in a finished document.
const spliceType = "\x00splice"

func cloneMarks(marks []Mark) []Mark {
	if marks == nil {
		return nil
	}
	out := make([]Mark, len(marks))
	copy(out, marks)
	return out
}

// insertText splices text into the text node containing at. A nil marks
// slice inherits the node's marks; otherwise the inserted run becomes its
// own text node carrying exactly the given marks, splitting the node so
// the surrounding text keeps its own. Returns false if the document has
// no text node to receive it.
func insertText(n *Node, at int, text string, marks []Mark) bool {
	spans := n.TextSpans()
	if len(spans) == 0 {
		return false
	}
	// Past the last span the text appends to the final text node.
	target := spans[len(spans)-1]
	for _, span := range spans {
		if at >= span.From && at <= span.To {
			target = span
			break
		}
	}
	runes := []rune(target.Node.Text)
	cut := min(max(at-target.From, 0), len(runes))

	if marks == nil || marksEq(target.Node.Marks, marks) {
		target.Node.Text = string(runes[:cut]) + text + string(runes[cut:])
		return true
	}

	pieces := make([]*Node, 0, 3)
	if cut > 0 {
		pieces = append(pieces, &Node{Type: TextType, Text: string(runes[:cut]), Marks: cloneMarks(target.Node.Marks)})
	}
	pieces = append(pieces, &Node{Type: TextType, Text: text, Marks: cloneMarks(marks)})
	if cut < len(runes) {
		pieces = append(pieces, &Node{Type: TextType, Text: string(runes[cut:]), Marks: cloneMarks(target.Node.Marks)})
	}
	spliceChild(n, target.Node, pieces)
	return true
}

// spliceChild replaces old with pieces wherever it sits in the tree.
func spliceChild(n *Node, old *Node, pieces []*Node) bool {
	for i, c := range n.Children {
		if c == old {
			children := make([]*Node, 0, len(n.Children)+len(pieces)-1)
			children = append(children, n.Children[:i]...)
			children = append(children, pieces...)
			children = append(children, n.Children[i+1:]...)
			n.Children = children
			return true
		}
		if spliceChild(c, old, pieces) {
			return true
		}
	}
	return false
}

// marksEq reports whether two mark sets match element-wise.
func marksEq(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// deleteRange removes text in [from, to), dropping emptied text nodes.
func deleteRange(n *Node, pos, from, to int) int {
	if n.IsText() {
		end := pos + n.TextLen()
		if end <= from || pos >= to {
			return end
		}
		runes := []rune(n.Text)
		lo := max(from, pos) - pos
		hi := min(to, end) - pos
		n.Text = string(runes[:lo]) + string(runes[hi:])
		return end
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		pos = deleteRange(c, pos, from, to)
		if c.IsText() && c.Text == "" {
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept
	return pos
}

// deepestContainer returns the last non-text descendant with no children,
// or the node itself.
func deepestContainer(n *Node) *Node {
	for len(n.Children) > 0 {
		last := n.Children[len(n.Children)-1]
		if last.IsText() {
			return n
		}
		n = last
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
