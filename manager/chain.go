package manager

import (
	"fmt"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// Chain is the chainable command surface. Each Cmd call queues a
// command's effect into one shared transaction; Run dispatches the
// accumulated transaction exactly once. Either every queued step commits
// together or none do.
//
// Commands declared with DisableChaining are absent from this surface:
// queuing one records a descriptive error that Run returns. This is the
// documented policy for dynamic access to non-chainable commands.
type Chain struct {
	m   *Manager
	tr  *document.Transaction
	all bool
	err error
	ran bool
	ok  bool
}

// Chain starts a chain over the current state. Fails before a view is
// attached and after destruction.
func (m *Manager) Chain() (*Chain, error) {
	if err := m.requireView(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	view := m.view
	m.mu.RUnlock()
	return &Chain{m: m, tr: view.State().Transaction(), all: true}, nil
}

// Cmd queues a command. The command sees the chain's working transaction,
// so it observes the effect of every command queued before it. Errors
// (unknown command, non-chainable command) are recorded and surfaced by
// Run; subsequent Cmd calls become no-ops.
func (c *Chain) Cmd(name string, args ...map[string]any) *Chain {
	if c.err != nil {
		return c
	}

	m := c.m
	m.mu.RLock()
	entry, ok := m.commands[name]
	store := m.store
	view := m.view
	m.mu.RUnlock()

	if !ok {
		c.err = fmt.Errorf("command %q: %w", name, ErrUnknownCommand)
		return c
	}
	if !entry.chainable {
		c.err = fmt.Errorf("command %q (declared by %q with DisableChaining): %w", name, entry.owner, ErrNotChainable)
		return c
	}

	ctx := &extension.CommandContext{
		State:   view.State(),
		Tr:      c.tr,
		Args:    mergeArgs(args),
		Runtime: store,
		// Non-nil: effects queued here will be committed by Run.
		Dispatch: func(*document.Transaction) {},
	}
	if !entry.fn(ctx) {
		c.all = false
	}
	return c
}

// Run dispatches the accumulated transaction once and reports whether
// every queued command was applicable. A recorded chain error or a step
// failure aborts the dispatch entirely. The chain is spent after the
// first call; calling Run again returns the first result without
// dispatching anything.
func (c *Chain) Run() (bool, error) {
	if c.ran {
		return c.ok, c.err
	}
	c.ran = true
	if c.err == nil {
		c.err = c.m.requireView()
	}
	if c.err == nil {
		c.err = c.tr.Err()
	}
	if c.err != nil {
		return false, c.err
	}
	if c.tr.DocChanged() || c.tr.SelectionSet() {
		c.m.dispatch(c.tr)
	}
	c.ok = c.all
	return c.ok, nil
}
