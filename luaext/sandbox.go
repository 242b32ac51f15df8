package luaext

import (
	lua "github.com/yuin/gopher-lua"
)

// safeModules are the pure built-in modules scripts may require.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
	"utf8":   true,
}

// sandbox strips the interpreter of everything that reaches outside the
// script: file loading, disk-based module resolution, and arbitrary
// require targets.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	// Disable disk-based module resolution.
	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}
