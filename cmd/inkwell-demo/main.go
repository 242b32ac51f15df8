// Package main is a headless demonstration of the extension framework:
// it assembles an editor from a preset, runs a few commands, and prints
// the resulting document.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extensions"
	"github.com/dshills/inkwell/luaext"
	"github.com/dshills/inkwell/manager"
	"github.com/dshills/inkwell/preset"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		scriptPath  string
		text        string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to a preset TOML file")
	flag.StringVar(&scriptPath, "script", "", "path to a Lua extension script")
	flag.StringVar(&text, "text", "hello world", "initial document text")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("inkwell-demo %s\n", version)
		return 0
	}

	exts := extensions.Preset()
	if configPath != "" {
		built, err := preset.BuildFile(preset.Builtin(), configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		exts = built
	}
	if scriptPath != "" {
		scripted, err := luaext.LoadFile(scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		exts = append(exts, scripted)
	}

	m, err := manager.New(exts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to assemble editor: %v\n", err)
		return 1
	}
	defer m.Destroy()

	doc, err := document.FromText(m.Schema(), text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	state := document.NewState(m.Schema(), doc).
		WithSelection(document.SelectRange(0, doc.Size()))
	view := manager.NewHeadlessView(state)
	if err := m.AttachView(view); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to attach view: %v\n", err)
		return 1
	}

	cs, err := m.Commands()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println("commands:")
	for _, name := range cs.Names() {
		chainable, _ := cs.Chainable(name)
		note := ""
		if !chainable {
			note = " (not chainable)"
		}
		fmt.Printf("  %s%s\n", name, note)
	}

	// Chain a couple of formatting commands: one dispatch, both marks.
	chain, err := m.Chain()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if _, err := chain.Cmd("toggleBold").Cmd("toggleItalic").Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: chain failed: %v\n", err)
		return 1
	}

	hs, err := m.Helpers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	html, err := hs.Call("toHTML")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println()
	fmt.Printf("document: %s\n", html)
	fmt.Printf("dispatches: %d\n", view.DispatchCount())
	return 0
}
