package extensions

import (
	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// Mark commands operate on the transaction's working document so they
// compose in chains: a command queued after another sees its effect.

// setMarkCommand adds the named mark across the selection.
func setMarkCommand(name string) extension.Command {
	return func(ctx *extension.CommandContext) bool {
		sel := ctx.Tr.Selection()
		if sel.Empty() {
			return false
		}
		mark, err := ctx.State.Schema().MarkOf(name, nil)
		if err != nil {
			return false
		}
		if ctx.DryRun() {
			return true
		}
		ctx.Tr.AddMark(sel.From(), sel.To(), mark)
		return ctx.Tr.Err() == nil
	}
}

// unsetMarkCommand removes the named mark across the selection.
func unsetMarkCommand(name string) extension.Command {
	return func(ctx *extension.CommandContext) bool {
		sel := ctx.Tr.Selection()
		if sel.Empty() {
			return false
		}
		mark, err := ctx.State.Schema().MarkOf(name, nil)
		if err != nil {
			return false
		}
		if ctx.DryRun() {
			return true
		}
		ctx.Tr.RemoveMark(sel.From(), sel.To(), mark)
		return ctx.Tr.Err() == nil
	}
}

// toggleMarkCommand removes the mark when the whole selection carries
// it, and adds it otherwise.
func toggleMarkCommand(name string) extension.Command {
	return func(ctx *extension.CommandContext) bool {
		sel := ctx.Tr.Selection()
		if sel.Empty() {
			return false
		}
		mark, err := ctx.State.Schema().MarkOf(name, nil)
		if err != nil {
			return false
		}
		if ctx.DryRun() {
			return true
		}
		if rangeFullyMarked(ctx.Tr.Doc(), sel.From(), sel.To(), name) {
			ctx.Tr.RemoveMark(sel.From(), sel.To(), mark)
		} else {
			ctx.Tr.AddMark(sel.From(), sel.To(), mark)
		}
		return ctx.Tr.Err() == nil
	}
}

// rangeFullyMarked reports whether every text position in [from, to)
// carries a mark of the given type.
func rangeFullyMarked(doc *document.Node, from, to int, name string) bool {
	if from >= to {
		return false
	}
	for _, span := range doc.TextSpans() {
		if span.To <= from || span.From >= to {
			continue
		}
		if !document.MarksContain(span.Node.Marks, name) {
			return false
		}
	}
	return true
}
