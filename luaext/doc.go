// Package luaext loads editor extensions written in Lua. A script
// declares its identity with the extension() global and contributes
// commands, helpers, and keybindings through the corresponding globals:
//
//	extension{ name = "shout", kind = "plain" }
//
//	command("shout", function(ctx)
//	    if ctx:selection_empty() then return false end
//	    if ctx:dry_run() then return true end
//	    ctx:add_mark(ctx:from(), ctx:to(), "bold")
//	    return true
//	end)
//
//	keybinding("Mod-u", "shout")
//
// Scripts run in a sandboxed interpreter: file loading and arbitrary
// module access are removed, and only the pure built-in modules
// (string, table, math, utf8) can be required.
package luaext
