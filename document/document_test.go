package document

import (
	"errors"
	"testing"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()
	if err := s.AddNode("doc", NodeSpec{Content: "block+"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode(TextType, NodeSpec{Inline: true, Group: "inline"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode("paragraph", NodeSpec{Content: "inline*", Group: "block", Tag: "p"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode("heading", NodeSpec{
		Content: "inline*",
		Group:   "block",
		Attrs:   map[string]AttributeSpec{"level": {Default: 1}},
		RenderTag: func(attrs map[string]any) string {
			switch attrs["level"] {
			case 2:
				return "h2"
			case 3:
				return "h3"
			default:
				return "h1"
			}
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMark("bold", MarkSpec{Tag: "strong", Inclusive: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMark("italic", MarkSpec{Tag: "em", Inclusive: true}); err != nil {
		t.Fatal(err)
	}
	return s
}

func helloDoc(t *testing.T, s *Schema) *Node {
	t.Helper()
	doc, err := FromText(s, "hello")
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestSchemaDuplicateType(t *testing.T) {
	s := NewSchema()
	if err := s.AddNode("doc", NodeSpec{}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode("doc", NodeSpec{}); !errors.Is(err, ErrTypeExists) {
		t.Errorf("AddNode(dup) error = %v, want ErrTypeExists", err)
	}
	if err := s.AddMark("bold", MarkSpec{}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMark("bold", MarkSpec{}); !errors.Is(err, ErrTypeExists) {
		t.Errorf("AddMark(dup) error = %v, want ErrTypeExists", err)
	}
	if err := s.AddMark("doc", MarkSpec{}); !errors.Is(err, ErrTypeExists) {
		t.Errorf("AddMark(node name) error = %v, want ErrTypeExists", err)
	}
}

func TestAttributeDefaults(t *testing.T) {
	s := testSchema(t)

	n, err := s.NodeOf("heading", nil)
	if err != nil {
		t.Fatalf("NodeOf() error = %v", err)
	}
	if got := n.Attrs["level"]; got != 1 {
		t.Errorf("level = %v, want 1", got)
	}

	n, err = s.NodeOf("heading", map[string]any{"level": 3})
	if err != nil {
		t.Fatalf("NodeOf(level=3) error = %v", err)
	}
	if got := n.Attrs["level"]; got != 3 {
		t.Errorf("level = %v, want 3", got)
	}

	if _, err := s.NodeOf("heading", map[string]any{"bogus": true}); err == nil {
		t.Error("NodeOf(unknown attr) error = nil, want error")
	}
	if _, err := s.NodeOf("nope", nil); !errors.Is(err, ErrUnknownType) {
		t.Errorf("NodeOf(unknown type) error = %v, want ErrUnknownType", err)
	}
}

func TestAddMarkSplitsTextNodes(t *testing.T) {
	s := testSchema(t)
	doc := helloDoc(t, s)
	bold, err := s.MarkOf("bold", nil)
	if err != nil {
		t.Fatal(err)
	}

	step := &AddMarkStep{From: 1, To: 4, Mark: bold}
	next, err := step.Apply(doc)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	para := next.Children[0]
	if len(para.Children) != 3 {
		t.Fatalf("text pieces = %d, want 3", len(para.Children))
	}
	wantTexts := []string{"h", "ell", "o"}
	wantBold := []bool{false, true, false}
	for i, c := range para.Children {
		if c.Text != wantTexts[i] {
			t.Errorf("piece %d text = %q, want %q", i, c.Text, wantTexts[i])
		}
		if got := MarksContain(c.Marks, "bold"); got != wantBold[i] {
			t.Errorf("piece %d bold = %v, want %v", i, got, wantBold[i])
		}
	}

	// Original document untouched.
	if len(doc.Children[0].Children) != 1 {
		t.Error("step mutated the input document")
	}
}

func TestRemoveMark(t *testing.T) {
	s := testSchema(t)
	doc := helloDoc(t, s)
	bold, _ := s.MarkOf("bold", nil)

	marked, err := (&AddMarkStep{From: 0, To: 5, Mark: bold}).Apply(doc)
	if err != nil {
		t.Fatal(err)
	}
	cleared, err := (&RemoveMarkStep{From: 0, To: 5, Mark: bold}).Apply(marked)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for _, span := range cleared.TextSpans() {
		if MarksContain(span.Node.Marks, "bold") {
			t.Error("bold mark still present after removal")
		}
	}
}

func TestInsertAndDelete(t *testing.T) {
	s := testSchema(t)
	doc := helloDoc(t, s)

	next, err := (&InsertTextStep{At: 5, Text: " world"}).Apply(doc)
	if err != nil {
		t.Fatalf("insert error = %v", err)
	}
	if got := next.TextContent(); got != "hello world" {
		t.Errorf("TextContent() = %q, want %q", got, "hello world")
	}

	next, err = (&DeleteStep{From: 0, To: 6}).Apply(next)
	if err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if got := next.TextContent(); got != "world" {
		t.Errorf("TextContent() = %q, want %q", got, "world")
	}
}

func TestInsertMarkedTextSplitsNode(t *testing.T) {
	s := testSchema(t)
	doc := helloDoc(t, s)
	bold, _ := s.MarkOf("bold", nil)

	next, err := (&InsertTextStep{At: 2, Text: "xx", Marks: []Mark{bold}}).Apply(doc)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := next.TextContent(); got != "hexxllo" {
		t.Fatalf("TextContent() = %q, want %q", got, "hexxllo")
	}

	// Only the inserted run carries the mark; the split halves keep theirs.
	spans := next.TextSpans()
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(spans))
	}
	want := []struct {
		text string
		bold bool
	}{{"he", false}, {"xx", true}, {"llo", false}}
	for i, w := range want {
		if spans[i].Node.Text != w.text {
			t.Errorf("span[%d] text = %q, want %q", i, spans[i].Node.Text, w.text)
		}
		if got := MarksContain(spans[i].Node.Marks, "bold"); got != w.bold {
			t.Errorf("span[%d] bold = %v, want %v", i, got, w.bold)
		}
	}

	// A nil marks slice still inherits from the containing node.
	marked, _ := (&AddMarkStep{From: 0, To: 5, Mark: bold}).Apply(doc)
	next, err = (&InsertTextStep{At: 2, Text: "y"}).Apply(marked)
	if err != nil {
		t.Fatal(err)
	}
	for _, span := range next.TextSpans() {
		if !MarksContain(span.Node.Marks, "bold") {
			t.Errorf("span %q lost bold after unmarked insert", span.Node.Text)
		}
	}

	// Matching marks splice without splitting.
	next, err = (&InsertTextStep{At: 2, Text: "z", Marks: []Mark{bold}}).Apply(marked)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(next.TextSpans()); got != 1 {
		t.Errorf("spans after same-marked insert = %d, want 1", got)
	}
}

func TestStepRangeErrors(t *testing.T) {
	s := testSchema(t)
	doc := helloDoc(t, s)
	bold, _ := s.MarkOf("bold", nil)

	tests := []struct {
		name string
		step Step
	}{
		{"inverted", &AddMarkStep{From: 4, To: 1, Mark: bold}},
		{"out of bounds", &AddMarkStep{From: 0, To: 99, Mark: bold}},
		{"negative", &DeleteStep{From: -1, To: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.step.Apply(doc); !errors.Is(err, ErrRangeInvalid) {
				t.Errorf("Apply() error = %v, want ErrRangeInvalid", err)
			}
		})
	}
}

func TestSetBlockType(t *testing.T) {
	s := testSchema(t)
	doc := helloDoc(t, s)

	next, err := (&SetBlockTypeStep{From: 0, To: 5, NodeType: "heading", Attrs: map[string]any{"level": 2}}).Apply(doc)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	block := next.Children[0]
	if block.Type != "heading" {
		t.Errorf("block type = %q, want heading", block.Type)
	}
	if got := block.Attrs["level"]; got != 2 {
		t.Errorf("level = %v, want 2", got)
	}
}

func TestTransactionAccumulates(t *testing.T) {
	s := testSchema(t)
	state := NewState(s, helloDoc(t, s)).WithSelection(SelectRange(0, 5))
	bold, _ := s.MarkOf("bold", nil)
	italic, _ := s.MarkOf("italic", nil)

	tr := state.Transaction().
		AddMark(0, 5, bold).
		AddMark(0, 5, italic)
	if tr.Err() != nil {
		t.Fatalf("transaction error = %v", tr.Err())
	}
	if got := len(tr.Steps()); got != 2 {
		t.Fatalf("steps = %d, want 2", got)
	}

	next := state.Apply(tr)
	span := next.Doc().TextSpans()[0]
	if !MarksContain(span.Node.Marks, "bold") || !MarksContain(span.Node.Marks, "italic") {
		t.Errorf("marks = %v, want bold+italic", span.Node.Marks)
	}
	// Original state untouched.
	if MarksContain(state.Doc().TextSpans()[0].Node.Marks, "bold") {
		t.Error("Apply mutated the original state")
	}
}

func TestTransactionErrStopsSteps(t *testing.T) {
	s := testSchema(t)
	state := NewState(s, helloDoc(t, s))
	bold, _ := s.MarkOf("bold", nil)

	tr := state.Transaction().
		AddMark(0, 99, bold). // fails
		InsertText(0, "x")    // must be skipped
	if tr.Err() == nil {
		t.Fatal("transaction error = nil, want range error")
	}
	if tr.DocChanged() {
		t.Error("DocChanged() = true after failed step")
	}
	if got := state.Apply(tr); got != state {
		t.Error("applying a failed transaction should return the original state")
	}
}

func TestMarksAt(t *testing.T) {
	s := testSchema(t)
	doc := helloDoc(t, s)
	bold, _ := s.MarkOf("bold", nil)
	marked, _ := (&AddMarkStep{From: 0, To: 3, Mark: bold}).Apply(doc)
	state := NewState(s, marked)

	if marks := state.MarksAt(2); !MarksContain(marks, "bold") {
		t.Errorf("MarksAt(2) = %v, want bold", marks)
	}
	if marks := state.MarksAt(5); MarksContain(marks, "bold") {
		t.Errorf("MarksAt(5) = %v, want no bold", marks)
	}

	stored := state.WithStoredMarks([]Mark{bold})
	if marks := stored.MarksAt(5); !MarksContain(marks, "bold") {
		t.Errorf("stored MarksAt(5) = %v, want bold", marks)
	}
}

func TestStepJSONRoundTrip(t *testing.T) {
	bold := Mark{Type: "bold"}
	steps := []Step{
		&AddMarkStep{From: 1, To: 4, Mark: bold},
		&RemoveMarkStep{From: 0, To: 2, Mark: bold},
		&InsertTextStep{At: 3, Text: "hi", Marks: []Mark{bold}},
		&DeleteStep{From: 2, To: 5},
		&SetBlockTypeStep{From: 0, To: 5, NodeType: "heading", Attrs: map[string]any{"level": float64(2)}},
	}
	for _, step := range steps {
		t.Run(step.Name(), func(t *testing.T) {
			raw, err := MarshalStep(step)
			if err != nil {
				t.Fatalf("MarshalStep() error = %v", err)
			}
			back, err := UnmarshalStep(raw)
			if err != nil {
				t.Fatalf("UnmarshalStep() error = %v", err)
			}
			if back.Name() != step.Name() {
				t.Errorf("round-trip name = %q, want %q", back.Name(), step.Name())
			}
		})
	}

	if _, err := UnmarshalStep([]byte(`{"type":"warp","data":{}}`)); !errors.Is(err, ErrUnknownStep) {
		t.Errorf("UnmarshalStep(unknown) error = %v, want ErrUnknownStep", err)
	}
}

func TestToHTML(t *testing.T) {
	s := testSchema(t)
	doc := helloDoc(t, s)
	bold, _ := s.MarkOf("bold", nil)
	italic, _ := s.MarkOf("italic", nil)

	marked, _ := (&AddMarkStep{From: 0, To: 5, Mark: bold}).Apply(doc)
	marked, _ = (&AddMarkStep{From: 0, To: 5, Mark: italic}).Apply(marked)

	got := ToHTML(s, marked)
	want := "<p><strong><em>hello</em></strong></p>"
	if got != want {
		t.Errorf("ToHTML() = %q, want %q", got, want)
	}
}
