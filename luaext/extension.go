package luaext

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// ScriptExtension is an extension whose behavior lives in a Lua script.
// All script callbacks run under one interpreter guarded by a mutex; the
// interpreter is shut down when the owning manager is destroyed.
type ScriptExtension struct {
	*extension.Base

	mu     sync.Mutex
	state  *lua.LState
	closed bool

	spec map[string]any
}

// declaration accumulates what the script declares while it runs.
type declaration struct {
	name     string
	kind     extension.Kind
	kindErr  error
	priority int
	tags     []extension.Tag
	options  extension.Options
	spec     map[string]any

	commands []scriptCommand
	helpers  []scriptHelper
	keys     []extension.Keybinding
}

type scriptCommand struct {
	name string
	opts extension.CommandOptions
	fn   *lua.LFunction
}

type scriptHelper struct {
	name string
	fn   *lua.LFunction
}

// Load compiles and runs a script, returning the extension it declares.
func Load(src string) (*ScriptExtension, error) {
	L := lua.NewState()
	sandbox(L)

	var d declaration
	installDeclarationAPI(L, &d)

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("script: %w", err)
	}
	if d.kindErr != nil {
		L.Close()
		return nil, d.kindErr
	}
	if d.name == "" {
		L.Close()
		return nil, ErrMissingName
	}

	e := &ScriptExtension{
		Base: extension.NewBase(d.name, d.kind,
			extension.WithTags(d.tags...),
			extension.WithPriority(d.priority),
			extension.WithOptions(d.options),
		),
		state: L,
		spec:  d.spec,
	}

	for _, c := range d.commands {
		e.RegisterCommand(c.name, c.opts, e.wrapCommand(c.fn))
	}
	for _, h := range d.helpers {
		e.RegisterHelper(h.name, e.wrapHelper(h.fn))
	}
	for _, kb := range d.keys {
		e.RegisterKeybinding(kb)
	}
	return e, nil
}

// LoadFile loads a script from disk.
func LoadFile(path string) (*ScriptExtension, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	ext, err := Load(string(src))
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return ext, nil
}

// installDeclarationAPI registers the globals scripts declare through.
func installDeclarationAPI(L *lua.LState, d *declaration) {
	L.SetGlobal("extension", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if name, ok := L.GetField(tbl, "name").(lua.LString); ok {
			d.name = string(name)
		}
		switch kind := L.GetField(tbl, "kind"); lua.LVAsString(kind) {
		case "", "plain":
			d.kind = extension.KindPlain
		case "mark":
			d.kind = extension.KindMark
		case "node":
			d.kind = extension.KindNode
		default:
			d.kindErr = fmt.Errorf("%w: %q", ErrBadKind, lua.LVAsString(kind))
		}
		if pri, ok := L.GetField(tbl, "priority").(lua.LNumber); ok {
			d.priority = int(pri)
		}
		if tags, ok := L.GetField(tbl, "tags").(*lua.LTable); ok {
			tags.ForEach(func(_, v lua.LValue) {
				d.tags = append(d.tags, extension.Tag(lua.LVAsString(v)))
			})
		}
		if opts, ok := L.GetField(tbl, "options").(*lua.LTable); ok {
			if m, ok := tableToGo(opts).(map[string]any); ok {
				d.options = extension.Options(m)
			}
		}
		if spec, ok := L.GetField(tbl, "spec").(*lua.LTable); ok {
			if m, ok := tableToGo(spec).(map[string]any); ok {
				d.spec = m
			}
		}
		return 0
	}))

	L.SetGlobal("command", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		cmd := scriptCommand{name: name}
		if L.GetTop() >= 3 {
			opts := L.CheckTable(2)
			if v, ok := L.GetField(opts, "chainable").(lua.LBool); ok {
				cmd.opts.DisableChaining = !bool(v)
			}
			if v, ok := L.GetField(opts, "description").(lua.LString); ok {
				cmd.opts.Description = string(v)
			}
			cmd.fn = L.CheckFunction(3)
		} else {
			cmd.fn = L.CheckFunction(2)
		}
		d.commands = append(d.commands, cmd)
		return 0
	}))

	L.SetGlobal("helper", L.NewFunction(func(L *lua.LState) int {
		d.helpers = append(d.helpers, scriptHelper{
			name: L.CheckString(1),
			fn:   L.CheckFunction(2),
		})
		return 0
	}))

	L.SetGlobal("keybinding", L.NewFunction(func(L *lua.LState) int {
		d.keys = append(d.keys, extension.Keybinding{
			Keys:    L.CheckString(1),
			Command: L.CheckString(2),
		})
		return 0
	}))
}

// wrapCommand adapts a Lua function to the command convention: the
// script returns a boolean applicability result and writes its effect
// through the ctx methods.
func (e *ScriptExtension) wrapCommand(fn *lua.LFunction) extension.Command {
	return func(ctx *extension.CommandContext) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return false
		}
		L := e.state

		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, e.commandTable(ctx)); err != nil {
			return false
		}
		ret := L.Get(-1)
		L.Pop(1)
		return lua.LVAsBool(ret)
	}
}

// commandTable builds the ctx table handed to a script command.
func (e *ScriptExtension) commandTable(ctx *extension.CommandContext) *lua.LTable {
	L := e.state
	t := L.NewTable()

	L.SetField(t, "from", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(ctx.Tr.Selection().From()))
		return 1
	}))
	L.SetField(t, "to", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(ctx.Tr.Selection().To()))
		return 1
	}))
	L.SetField(t, "selection_empty", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(ctx.Tr.Selection().Empty()))
		return 1
	}))
	L.SetField(t, "dry_run", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(ctx.DryRun()))
		return 1
	}))
	L.SetField(t, "text", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(ctx.Tr.Doc().TextContent()))
		return 1
	}))
	L.SetField(t, "size", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(ctx.Tr.Doc().Size()))
		return 1
	}))
	L.SetField(t, "arg", L.NewFunction(func(L *lua.LState) int {
		L.Push(toLuaValue(L, ctx.Args[L.CheckString(2)]))
		return 1
	}))
	L.SetField(t, "insert_text", L.NewFunction(func(L *lua.LState) int {
		ctx.Tr.InsertText(L.CheckInt(2), L.CheckString(3))
		return 0
	}))
	L.SetField(t, "delete", L.NewFunction(func(L *lua.LState) int {
		ctx.Tr.Delete(L.CheckInt(2), L.CheckInt(3))
		return 0
	}))
	L.SetField(t, "add_mark", L.NewFunction(func(L *lua.LState) int {
		from, to, name := L.CheckInt(2), L.CheckInt(3), L.CheckString(4)
		mark, err := ctx.State.Schema().MarkOf(name, nil)
		if err != nil {
			L.RaiseError("add_mark: %s", err.Error())
			return 0
		}
		ctx.Tr.AddMark(from, to, mark)
		return 0
	}))
	L.SetField(t, "remove_mark", L.NewFunction(func(L *lua.LState) int {
		from, to, name := L.CheckInt(2), L.CheckInt(3), L.CheckString(4)
		mark, err := ctx.State.Schema().MarkOf(name, nil)
		if err != nil {
			L.RaiseError("remove_mark: %s", err.Error())
			return 0
		}
		ctx.Tr.RemoveMark(from, to, mark)
		return 0
	}))
	L.SetField(t, "set_selection", L.NewFunction(func(L *lua.LState) int {
		ctx.Tr.SetSelection(document.SelectRange(L.CheckInt(2), L.CheckInt(3)))
		return 0
	}))
	L.SetField(t, "set_block_type", L.NewFunction(func(L *lua.LState) int {
		from, to, name := L.CheckInt(2), L.CheckInt(3), L.CheckString(4)
		var attrs map[string]any
		if L.GetTop() >= 5 {
			if m, ok := tableToGo(L.CheckTable(5)).(map[string]any); ok {
				attrs = m
			}
		}
		ctx.Tr.SetBlockType(from, to, name, attrs)
		return 0
	}))
	return t
}

// wrapHelper adapts a Lua function to the helper convention: it
// receives a snapshot table and returns a value.
func (e *ScriptExtension) wrapHelper(fn *lua.LFunction) extension.Helper {
	return func(state *document.State) any {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return nil
		}
		L := e.state

		t := L.NewTable()
		sel := state.Selection()
		L.SetField(t, "text", lua.LString(state.Doc().TextContent()))
		L.SetField(t, "size", lua.LNumber(state.Doc().Size()))
		L.SetField(t, "from", lua.LNumber(sel.From()))
		L.SetField(t, "to", lua.LNumber(sel.To()))
		L.SetField(t, "selection_empty", lua.LBool(sel.Empty()))

		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
			return nil
		}
		ret := L.Get(-1)
		L.Pop(1)
		return toGoValue(ret)
	}
}

// CreateMarkSpec implements extension.MarkSpecProvider from the script's
// spec declaration.
func (e *ScriptExtension) CreateMarkSpec(ctx *extension.SpecContext) document.MarkSpec {
	spec := document.MarkSpec{}
	if tag, ok := e.spec["tag"].(string); ok {
		spec.Tag = tag
	}
	if inc, ok := e.spec["inclusive"].(bool); ok {
		spec.Inclusive = inc
	}
	return spec
}

// CreateNodeSpec implements extension.NodeSpecProvider from the script's
// spec declaration.
func (e *ScriptExtension) CreateNodeSpec(ctx *extension.SpecContext) document.NodeSpec {
	spec := document.NodeSpec{}
	if tag, ok := e.spec["tag"].(string); ok {
		spec.Tag = tag
	}
	if content, ok := e.spec["content"].(string); ok {
		spec.Content = content
	}
	if group, ok := e.spec["group"].(string); ok {
		spec.Group = group
	}
	if inline, ok := e.spec["inline"].(bool); ok {
		spec.Inline = inline
	}
	return spec
}

// OnDestroy implements extension.DestroyHook: it shuts the interpreter
// down.
func (e *ScriptExtension) OnDestroy(extension.Runtime) error {
	e.Close()
	return nil
}

// Close shuts the interpreter down. Commands called afterward report
// inapplicable.
func (e *ScriptExtension) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.state.Close()
}
