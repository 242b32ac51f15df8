package document

// State is an immutable snapshot of a document plus its selection.
// Applying a transaction produces a new State.
type State struct {
	schema      *Schema
	doc         *Node
	selection   Selection
	storedMarks []Mark
}

// NewState creates a state over doc with a collapsed selection at 0.
func NewState(schema *Schema, doc *Node) *State {
	return &State{schema: schema, doc: doc}
}

// Schema returns the state's schema.
func (s *State) Schema() *Schema { return s.schema }

// Doc returns the state's document.
func (s *State) Doc() *Node { return s.doc }

// Selection returns the state's selection.
func (s *State) Selection() Selection { return s.selection }

// StoredMarks returns marks pending application at a collapsed cursor.
func (s *State) StoredMarks() []Mark { return cloneMarks(s.storedMarks) }

// WithSelection returns a new state with the selection replaced.
func (s *State) WithSelection(sel Selection) *State {
	out := *s
	out.selection = sel.clamp(s.doc.Size())
	out.storedMarks = nil
	return &out
}

// WithStoredMarks returns a new state with the cursor marks replaced.
func (s *State) WithStoredMarks(marks []Mark) *State {
	out := *s
	out.storedMarks = cloneMarks(marks)
	return &out
}

// Transaction starts a transaction from this state.
func (s *State) Transaction() *Transaction {
	return NewTransaction(s.doc, s.selection)
}

// Apply produces the state resulting from a transaction. A transaction
// with a recorded step error leaves the state unchanged.
func (s *State) Apply(tr *Transaction) *State {
	if tr.Err() != nil || (!tr.DocChanged() && !tr.selSet) {
		return s
	}
	out := *s
	out.doc = tr.Doc()
	out.selection = tr.Selection().clamp(out.doc.Size())
	out.storedMarks = nil
	return &out
}

// MarksAt returns the marks that would apply to text inserted at pos:
// stored marks if set, otherwise the marks of the text ending at or
// spanning pos.
func (s *State) MarksAt(pos int) []Mark {
	if s.storedMarks != nil {
		return cloneMarks(s.storedMarks)
	}
	for _, span := range s.doc.TextSpans() {
		if pos > span.From && pos <= span.To {
			return cloneMarks(span.Node.Marks)
		}
	}
	return nil
}
