package luaext

import (
	lua "github.com/yuin/gopher-lua"
)

// toGoValue converts a Lua value to its Go equivalent. Numbers with no
// fractional part become ints so option records round-trip cleanly.
func toGoValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return tableToGo(v)
	default:
		return nil
	}
}

// tableToGo converts a table to a slice when its keys are a contiguous
// 1..n sequence, and to a map otherwise.
func tableToGo(t *lua.LTable) any {
	n := t.Len()
	if n > 0 {
		count := 0
		t.ForEach(func(lua.LValue, lua.LValue) { count++ })
		if count == n {
			arr := make([]any, n)
			for i := 1; i <= n; i++ {
				arr[i-1] = toGoValue(t.RawGetInt(i))
			}
			return arr
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// toLuaValue converts a Go value to its Lua equivalent.
func toLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(toLuaValue(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			L.SetField(t, k, toLuaValue(L, item))
		}
		return t
	default:
		return lua.LNil
	}
}
