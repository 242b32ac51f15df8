package collab

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// ErrNoView is returned when a remote envelope arrives before a view is
// available to apply it to.
var ErrNoView = errors.New("collab: no view to apply remote steps to")

// originMeta is the transaction metadata key marking remotely applied
// transactions so they are not re-broadcast.
const originMeta = "collab.origin"

// Config configures the collaboration extension.
type Config struct {
	// ClientID identifies this client in outgoing envelopes. A random ID
	// is generated when empty.
	ClientID string

	// Debounce is how long to wait after the last local transaction
	// before sending. Rapid edits within the window collapse into one
	// envelope. Defaults to 250ms.
	Debounce time.Duration

	// Send receives each outgoing envelope. Called from a timer
	// goroutine. A nil Send disables broadcasting.
	Send func(Envelope)
}

// Extension observes local transactions and batches their steps into
// debounced outgoing envelopes.
type Extension struct {
	*extension.Base

	send     func(Envelope)
	debounce time.Duration
	clientID string

	mu      sync.Mutex
	version int
	base    int
	pending []document.Step
	origins []string
	timer   *time.Timer
	view    extension.View
}

// New creates the collaboration extension.
func New(cfg Config) *Extension {
	if cfg.ClientID == "" {
		cfg.ClientID = uuid.NewString()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	return &Extension{
		Base: extension.NewBase("collab", extension.KindPlain,
			extension.WithTags(extension.TagBehavior),
		),
		send:     cfg.Send,
		debounce: cfg.Debounce,
		clientID: cfg.ClientID,
	}
}

// ClientID returns the identifier stamped on outgoing envelopes.
func (e *Extension) ClientID() string { return e.clientID }

// Version returns the local document version: the number of local
// transactions observed so far.
func (e *Extension) Version() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// OnCreate implements extension.CreateHook: it hooks into the
// transaction stream.
func (e *Extension) OnCreate(rt extension.Runtime) error {
	return rt.OnTransaction(func(tr *document.Transaction, _ *document.State) {
		e.observe(tr)
	})
}

// OnView implements extension.ViewHook: remote envelopes need the view
// to apply against.
func (e *Extension) OnView(rt extension.Runtime) error {
	return rt.Set("collab.clientID", e.clientID)
}

// OnDestroy implements extension.DestroyHook: any pending envelope is
// flushed and the timer stopped.
func (e *Extension) OnDestroy(extension.Runtime) error {
	e.Flush()
	return nil
}

// BindView supplies the view remote envelopes apply through. Typically
// the same view handed to the manager.
func (e *Extension) BindView(v extension.View) {
	e.mu.Lock()
	e.view = v
	e.mu.Unlock()
}

// observe records a local transaction's steps and (re)arms the debounce
// timer. Remotely applied transactions are skipped.
func (e *Extension) observe(tr *document.Transaction) {
	if _, remote := tr.Meta(originMeta); remote {
		return
	}
	steps := tr.Steps()
	if len(steps) == 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		e.base = e.version
	}
	e.pending = append(e.pending, steps...)
	if origin, ok := tr.Meta("origin"); ok {
		if s, ok := origin.(string); ok {
			e.origins = append(e.origins, s)
		}
	}
	e.version++

	if e.send == nil {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, e.Flush)
}

// Flush sends the pending envelope immediately, if there is one.
func (e *Extension) Flush() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if len(e.pending) == 0 || e.send == nil {
		e.pending = nil
		e.origins = nil
		e.mu.Unlock()
		return
	}
	env := Envelope{
		Version:  e.base,
		ClientID: e.clientID,
		Steps:    e.pending,
		Origins:  e.origins,
	}
	send := e.send
	e.pending = nil
	e.origins = nil
	e.mu.Unlock()

	send(env)
}

// ApplyRemote applies a peer's envelope to the bound view. Envelopes
// from this client are ignored. The resulting transaction carries the
// remote origin marker so it is never re-broadcast.
func (e *Extension) ApplyRemote(env Envelope) error {
	if env.ClientID == e.clientID {
		return nil
	}

	e.mu.Lock()
	view := e.view
	e.mu.Unlock()
	if view == nil {
		return ErrNoView
	}

	state := view.State()
	tr := state.Transaction()
	tr.SetMeta(originMeta, env.ClientID)
	for _, s := range env.Steps {
		tr.Step(s)
	}
	if err := tr.Err(); err != nil {
		return err
	}
	view.Dispatch(tr)

	e.mu.Lock()
	e.version++
	e.mu.Unlock()
	return nil
}
