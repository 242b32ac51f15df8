package document

// Transaction accumulates steps against a working copy of a document.
// Steps are applied eagerly so later steps in the same transaction see
// the effect of earlier ones; the original document is never touched
// until the transaction is applied to a State.
type Transaction struct {
	before    *Node
	doc       *Node
	steps     []Step
	selection Selection
	selSet    bool
	meta      map[string]any
	err       error
}

// NewTransaction starts a transaction over doc with the given selection.
func NewTransaction(doc *Node, sel Selection) *Transaction {
	return &Transaction{before: doc, doc: doc, selection: sel}
}

// Doc returns the transaction's working document.
func (tr *Transaction) Doc() *Node { return tr.doc }

// Before returns the document the transaction started from.
func (tr *Transaction) Before() *Node { return tr.before }

// Steps returns the accumulated steps.
func (tr *Transaction) Steps() []Step {
	out := make([]Step, len(tr.steps))
	copy(out, tr.steps)
	return out
}

// DocChanged reports whether any step has been applied.
func (tr *Transaction) DocChanged() bool { return len(tr.steps) > 0 }

// Err returns the first step-application error, if any. Once a step has
// failed, further steps are ignored.
func (tr *Transaction) Err() error { return tr.err }

// Selection returns the transaction's selection.
func (tr *Transaction) Selection() Selection { return tr.selection }

// SelectionSet reports whether the selection was explicitly replaced.
func (tr *Transaction) SelectionSet() bool { return tr.selSet }

// SetSelection updates the transaction's selection.
func (tr *Transaction) SetSelection(sel Selection) *Transaction {
	tr.selection = sel
	tr.selSet = true
	return tr
}

// SetMeta attaches metadata to the transaction (e.g. an origin label).
func (tr *Transaction) SetMeta(key string, value any) *Transaction {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = value
	return tr
}

// Meta returns transaction metadata for a key.
func (tr *Transaction) Meta(key string) (any, bool) {
	v, ok := tr.meta[key]
	return v, ok
}

// Step applies a step to the working document and records it.
func (tr *Transaction) Step(s Step) *Transaction {
	if tr.err != nil {
		return tr
	}
	next, err := s.Apply(tr.doc)
	if err != nil {
		tr.err = err
		return tr
	}
	tr.doc = next
	tr.steps = append(tr.steps, s)
	return tr
}

// AddMark adds a mark across [from, to).
func (tr *Transaction) AddMark(from, to int, m Mark) *Transaction {
	return tr.Step(&AddMarkStep{From: from, To: to, Mark: m})
}

// RemoveMark removes marks of m's type across [from, to).
func (tr *Transaction) RemoveMark(from, to int, m Mark) *Transaction {
	return tr.Step(&RemoveMarkStep{From: from, To: to, Mark: m})
}

// InsertText inserts text at a position.
func (tr *Transaction) InsertText(at int, text string, marks ...Mark) *Transaction {
	var ms []Mark
	if len(marks) > 0 {
		ms = marks
	}
	tr.Step(&InsertTextStep{At: at, Text: text, Marks: ms})
	if tr.err == nil && !tr.selSet {
		end := at + len([]rune(text))
		tr.selection = Collapsed(end)
	}
	return tr
}

// Delete removes the text in [from, to).
func (tr *Transaction) Delete(from, to int) *Transaction {
	tr.Step(&DeleteStep{From: from, To: to})
	if tr.err == nil && !tr.selSet {
		tr.selection = Collapsed(from)
	}
	return tr
}

// SetBlockType retypes every innermost block overlapping [from, to].
func (tr *Transaction) SetBlockType(from, to int, nodeType string, attrs map[string]any) *Transaction {
	return tr.Step(&SetBlockTypeStep{From: from, To: to, NodeType: nodeType, Attrs: attrs})
}
