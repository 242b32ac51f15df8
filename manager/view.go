package manager

import (
	"sync"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// HeadlessView is a View with no rendering attached. It owns an editor
// state, applies dispatched transactions, and notifies change listeners.
// Useful for tests, server-side composition, and the demo binary.
type HeadlessView struct {
	mu         sync.RWMutex
	state      *document.State
	onChange   []func(state *document.State)
	dispatched int
}

var _ extension.View = (*HeadlessView)(nil)

// NewHeadlessView creates a view over an initial state.
func NewHeadlessView(state *document.State) *HeadlessView {
	return &HeadlessView{state: state}
}

// State implements extension.View.
func (v *HeadlessView) State() *document.State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Dispatch implements extension.View. Each call produces exactly one
// state change.
func (v *HeadlessView) Dispatch(tr *document.Transaction) {
	v.mu.Lock()
	v.state = v.state.Apply(tr)
	v.dispatched++
	state := v.state
	listeners := make([]func(*document.State), len(v.onChange))
	copy(listeners, v.onChange)
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// OnChange registers a state-change listener.
func (v *HeadlessView) OnChange(fn func(state *document.State)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = append(v.onChange, fn)
}

// DispatchCount returns how many transactions have been dispatched.
func (v *HeadlessView) DispatchCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dispatched
}

// SetSelection replaces the view's selection without a transaction.
func (v *HeadlessView) SetSelection(sel document.Selection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = v.state.WithSelection(sel)
}
