package collab

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
	"github.com/dshills/inkwell/extensions"
	"github.com/dshills/inkwell/manager"
)

// recorder captures sent envelopes.
type recorder struct {
	mu   sync.Mutex
	sent []Envelope
}

func (r *recorder) send(env Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, env)
}

func (r *recorder) envelopes() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.sent))
	copy(out, r.sent)
	return out
}

func newCollabEditor(t *testing.T, cfg Config) (*manager.Manager, *manager.HeadlessView, *Extension) {
	t.Helper()
	collab := New(cfg)
	exts := append(extensions.Preset(), collab)
	m, err := manager.New(exts)
	if err != nil {
		t.Fatalf("manager.New() error = %v", err)
	}
	doc, err := document.FromText(m.Schema(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	state := document.NewState(m.Schema(), doc).WithSelection(document.SelectRange(0, 5))
	view := manager.NewHeadlessView(state)
	if err := m.AttachView(view); err != nil {
		t.Fatalf("AttachView() error = %v", err)
	}
	collab.BindView(view)
	return m, view, collab
}

func TestEnvelopeJSONRoundTrip(t *testing.T) {
	env := Envelope{
		Version:  7,
		ClientID: "client-a",
		Steps: []document.Step{
			&document.InsertTextStep{At: 0, Text: "hi"},
			&document.AddMarkStep{From: 0, To: 2, Mark: document.Mark{Type: "bold"}},
		},
		Origins: []string{"input"},
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Envelope
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Version != 7 || got.ClientID != "client-a" {
		t.Errorf("header = %d/%q, want 7/client-a", got.Version, got.ClientID)
	}
	if len(got.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(got.Steps))
	}
	ins, ok := got.Steps[0].(*document.InsertTextStep)
	if !ok || ins.Text != "hi" {
		t.Errorf("step 0 = %#v, want insertText hi", got.Steps[0])
	}
	add, ok := got.Steps[1].(*document.AddMarkStep)
	if !ok || add.Mark.Type != "bold" {
		t.Errorf("step 1 = %#v, want addMark bold", got.Steps[1])
	}
}

func TestDefaultClientID(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	defer a.Release()
	defer b.Release()
	if a.ClientID() == "" {
		t.Fatal("ClientID() empty, want generated")
	}
	if a.ClientID() == b.ClientID() {
		t.Error("two extensions share a generated client ID")
	}
}

func TestDebouncedBatching(t *testing.T) {
	rec := &recorder{}
	m, _, collab := newCollabEditor(t, Config{
		ClientID: "local",
		Debounce: 20 * time.Millisecond,
		Send:     rec.send,
	})
	defer m.Destroy()

	cs, _ := m.Commands()
	if _, err := cs.Exec("toggleBold"); err != nil {
		t.Fatal(err)
	}
	if _, err := cs.Exec("toggleItalic"); err != nil {
		t.Fatal(err)
	}

	// Both edits land within the debounce window: one envelope.
	deadline := time.Now().Add(time.Second)
	for len(rec.envelopes()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	sent := rec.envelopes()
	if len(sent) != 1 {
		t.Fatalf("envelopes = %d, want 1", len(sent))
	}
	env := sent[0]
	if env.ClientID != "local" {
		t.Errorf("ClientID = %q, want local", env.ClientID)
	}
	if env.Version != 0 {
		t.Errorf("Version = %d, want 0 (batch base)", env.Version)
	}
	if len(env.Steps) != 2 {
		t.Errorf("steps = %d, want 2", len(env.Steps))
	}
	if got := collab.Version(); got != 2 {
		t.Errorf("Version() = %d, want 2", got)
	}
}

func TestFlushSendsImmediately(t *testing.T) {
	rec := &recorder{}
	m, _, collab := newCollabEditor(t, Config{
		ClientID: "local",
		Debounce: time.Hour,
		Send:     rec.send,
	})
	defer m.Destroy()

	cs, _ := m.Commands()
	if _, err := cs.Exec("toggleBold"); err != nil {
		t.Fatal(err)
	}
	if got := len(rec.envelopes()); got != 0 {
		t.Fatalf("envelope sent before flush: %d", got)
	}

	collab.Flush()
	sent := rec.envelopes()
	if len(sent) != 1 || len(sent[0].Steps) != 1 {
		t.Fatalf("after flush envelopes = %+v, want one with one step", sent)
	}

	// Nothing pending: a second flush sends nothing.
	collab.Flush()
	if got := len(rec.envelopes()); got != 1 {
		t.Errorf("empty flush sent an envelope: %d total", got)
	}
}

func TestApplyRemote(t *testing.T) {
	m, view, collab := newCollabEditor(t, Config{ClientID: "local"})
	defer m.Destroy()

	env := Envelope{
		Version:  0,
		ClientID: "peer",
		Steps: []document.Step{
			&document.AddMarkStep{From: 0, To: 5, Mark: document.Mark{Type: "bold"}},
		},
	}
	if err := collab.ApplyRemote(env); err != nil {
		t.Fatalf("ApplyRemote() error = %v", err)
	}

	span := view.State().Doc().TextSpans()[0]
	if !document.MarksContain(span.Node.Marks, "bold") {
		t.Error("remote bold mark not applied")
	}
}

func TestApplyRemoteIgnoresOwnEnvelopes(t *testing.T) {
	m, view, collab := newCollabEditor(t, Config{ClientID: "local"})
	defer m.Destroy()

	env := Envelope{
		ClientID: "local",
		Steps:    []document.Step{&document.DeleteStep{From: 0, To: 5}},
	}
	if err := collab.ApplyRemote(env); err != nil {
		t.Fatalf("ApplyRemote() error = %v", err)
	}
	if got := view.State().Doc().TextContent(); got != "hello" {
		t.Errorf("own envelope mutated document: %q", got)
	}
}

func TestRemoteStepsAreNotRebroadcast(t *testing.T) {
	rec := &recorder{}
	m, _, collab := newCollabEditor(t, Config{
		ClientID: "local",
		Debounce: 10 * time.Millisecond,
		Send:     rec.send,
	})
	defer m.Destroy()

	env := Envelope{
		ClientID: "peer",
		Steps: []document.Step{
			&document.InsertTextStep{At: 5, Text: "!"},
		},
	}
	if err := collab.ApplyRemote(env); err != nil {
		t.Fatal(err)
	}

	time.Sleep(50 * time.Millisecond)
	if got := len(rec.envelopes()); got != 0 {
		t.Errorf("remote application was re-broadcast: %d envelopes", got)
	}
}

func TestApplyRemoteWithoutView(t *testing.T) {
	collab := New(Config{ClientID: "local"})
	defer collab.Release()
	err := collab.ApplyRemote(Envelope{ClientID: "peer"})
	if err != ErrNoView {
		t.Errorf("ApplyRemote without view error = %v, want ErrNoView", err)
	}
}

var _ extension.CreateHook = (*Extension)(nil)
var _ extension.DestroyHook = (*Extension)(nil)
