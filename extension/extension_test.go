package extension

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/inkwell/document"
)

func TestResolveOrder(t *testing.T) {
	a := NewBase("a", KindPlain, WithPriority(10))
	b := NewBase("b", KindPlain, WithPriority(20))
	c := NewBase("c", KindPlain, WithPriority(10))

	got := Resolve([]Extension{a, b, c})
	want := []string{"b", "a", "c"}
	for i, e := range got {
		if e.Name() != want[i] {
			t.Errorf("resolved[%d] = %q, want %q", i, e.Name(), want[i])
		}
	}
}

func TestResolveStable(t *testing.T) {
	exts := []Extension{
		NewBase("one", KindPlain),
		NewBase("two", KindPlain),
		NewBase("three", KindPlain),
	}
	got := Resolve(exts)
	for i, e := range got {
		if e.Name() != exts[i].Name() {
			t.Errorf("equal-priority order changed: resolved[%d] = %q, want %q", i, e.Name(), exts[i].Name())
		}
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	low := NewBase("low", KindPlain, WithPriority(1))
	high := NewBase("high", KindPlain, WithPriority(9))
	in := []Extension{low, high}
	Resolve(in)
	if in[0].Name() != "low" {
		t.Error("Resolve reordered its input slice")
	}
}

func TestCheckNames(t *testing.T) {
	if err := CheckNames([]Extension{NewBase("a", KindPlain), NewBase("b", KindMark)}); err != nil {
		t.Errorf("CheckNames(unique) error = %v", err)
	}

	err := CheckNames([]Extension{
		NewBase("a", KindPlain),
		NewBase("dup", KindMark),
		NewBase("dup", KindNode),
	})
	if err == nil {
		t.Fatal("CheckNames(dup) error = nil, want error")
	}
	msg := err.Error()
	for _, want := range []string{"dup", "mark", "node", "position 1", "position 2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestOptionsMerge(t *testing.T) {
	defaults := Options{"tag": "strong", "levels": []int{1, 2, 3}}
	merged := defaults.Merge(Options{"tag": "b"})

	if got := merged.String("tag", ""); got != "b" {
		t.Errorf("tag = %q, want %q", got, "b")
	}
	if got := defaults.String("tag", ""); got != "strong" {
		t.Errorf("Merge mutated receiver: tag = %q", got)
	}
	if got := merged.IntSlice("levels", nil); len(got) != 3 {
		t.Errorf("levels = %v, want 3 entries", got)
	}
	if got := merged.Int("missing", 7); got != 7 {
		t.Errorf("Int(missing) = %d, want default 7", got)
	}
	if got := merged.Bool("missing", true); !got {
		t.Error("Bool(missing) = false, want default true")
	}
}

func TestBaseDefaultsAndOverrides(t *testing.T) {
	b := NewBase("heading", KindNode,
		WithDefaults(Options{"levels": []int{1, 2, 3}, "tag": "h"}),
		WithOptions(Options{"tag": "heading"}),
	)
	opts := b.Options()
	if got := opts.String("tag", ""); got != "heading" {
		t.Errorf("override tag = %q, want %q", got, "heading")
	}
	if got := opts.IntSlice("levels", nil); len(got) != 3 {
		t.Errorf("default levels = %v, want 3 entries", got)
	}
}

func TestBaseBindOnce(t *testing.T) {
	b := NewBase("solo", KindPlain)
	if err := b.Bind("manager-1"); err != nil {
		t.Fatalf("first Bind() error = %v", err)
	}
	if err := b.Bind("manager-2"); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("second Bind() error = %v, want ErrAlreadyBound", err)
	}
	b.Release()
	if err := b.Bind("manager-3"); err != nil {
		t.Errorf("Bind() after Release() error = %v", err)
	}
}

func TestRegistryRecordsOrder(t *testing.T) {
	var r Registry
	noop := func(ctx *CommandContext) bool { return true }
	r.RegisterCommand("first", CommandOptions{}, noop)
	r.RegisterCommand("second", CommandOptions{DisableChaining: true, Description: "no chain"}, noop)
	r.RegisterHelper("isEmpty", func(state *document.State) any { return true })
	r.RegisterKeybinding(Keybinding{Keys: "Mod-b", Command: "first"})

	cmds := r.RegisteredCommands()
	if len(cmds) != 2 {
		t.Fatalf("commands = %d, want 2", len(cmds))
	}
	if cmds[0].Name != "first" || cmds[1].Name != "second" {
		t.Errorf("command order = [%s %s], want [first second]", cmds[0].Name, cmds[1].Name)
	}
	if !cmds[1].Options.DisableChaining {
		t.Error("DisableChaining not preserved")
	}
	if got := len(r.RegisteredHelpers()); got != 1 {
		t.Errorf("helpers = %d, want 1", got)
	}
	if got := r.RegisteredKeybindings()[0].Keys; got != "Mod-b" {
		t.Errorf("keybinding keys = %q, want Mod-b", got)
	}
}

func TestWithTag(t *testing.T) {
	bold := NewBase("bold", KindMark, WithTags(TagFontStyle, TagFormattingMark))
	code := NewBase("code", KindMark, WithTags(TagCode))
	plain := NewBase("plain", KindPlain)

	got := WithTag([]Extension{bold, code, plain}, TagFontStyle)
	if len(got) != 1 || got[0].Name() != "bold" {
		t.Errorf("WithTag(fontStyle) = %v, want [bold]", got)
	}
	if !bold.HasTag(TagFormattingMark) {
		t.Error("HasTag(formattingMark) = false, want true")
	}
	if bold.HasTag(TagCode) {
		t.Error("HasTag(code) = true, want false")
	}
}

func TestMergeSpecs(t *testing.T) {
	inclusive := false
	mark := MergeMarkSpec(document.MarkSpec{Tag: "strong", Inclusive: true}, &SpecOverride{Tag: "b", Inclusive: &inclusive})
	if mark.Tag != "b" {
		t.Errorf("mark tag = %q, want b", mark.Tag)
	}
	if mark.Inclusive {
		t.Error("mark inclusive = true, want false")
	}

	// Unset override fields keep base values.
	mark = MergeMarkSpec(document.MarkSpec{Tag: "strong", Inclusive: true}, &SpecOverride{})
	if mark.Tag != "strong" || !mark.Inclusive {
		t.Errorf("empty override changed base: %+v", mark)
	}

	node := MergeNodeSpec(document.NodeSpec{Tag: "p", Content: "inline*", Group: "block"}, &SpecOverride{Tag: "div"})
	if node.Tag != "div" || node.Content != "inline*" || node.Group != "block" {
		t.Errorf("node merge = %+v", node)
	}

	if got := MergeNodeSpec(document.NodeSpec{Tag: "p"}, nil); got.Tag != "p" {
		t.Error("nil override changed base")
	}
}
