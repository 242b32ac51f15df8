package preset

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/inkwell/extension"
	"github.com/dshills/inkwell/manager"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	factory := func(extension.Options) (extension.Extension, error) {
		return extension.NewBase("x", extension.KindPlain), nil
	}
	if err := r.Register("x", factory); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("x", factory); !errors.Is(err, ErrFactoryExists) {
		t.Errorf("second Register() error = %v, want ErrFactoryExists", err)
	}
	if _, ok := r.Lookup("x"); !ok {
		t.Error("Lookup(x) not found")
	}
	if _, ok := r.Lookup("y"); ok {
		t.Error("Lookup(y) found, want missing")
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
[extensions.bold]
enabled = true

[extensions.bold.options]
tag = "b"

[extensions.code]
enabled = false

[extensions.heading]
priority = 10

[extensions.heading.options]
levels = [1, 2, 3]
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	bold := cfg.Extensions["bold"]
	if !bold.enabled() {
		t.Error("bold disabled, want enabled")
	}
	if bold.Options["tag"] != "b" {
		t.Errorf("bold tag option = %v, want b", bold.Options["tag"])
	}
	if cfg.Extensions["code"].enabled() {
		t.Error("code enabled, want disabled")
	}
	heading := cfg.Extensions["heading"]
	if heading.Priority == nil || *heading.Priority != 10 {
		t.Errorf("heading priority = %v, want 10", heading.Priority)
	}
	if _, ok := cfg.Extensions["absent"]; ok {
		t.Error("absent extension present in config")
	}
}

func TestParseConfigRejectsBadTOML(t *testing.T) {
	if _, err := Parse([]byte(`[extensions.bold`)); err == nil {
		t.Error("Parse() with broken TOML succeeded")
	}
}

func TestBuiltinRegistryNames(t *testing.T) {
	want := []string{"bold", "code", "core", "doc", "heading", "italic", "paragraph", "text"}
	got := Builtin().Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildDefaults(t *testing.T) {
	exts, err := Build(Builtin(), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	names := make(map[string]bool)
	for _, e := range exts {
		names[e.Name()] = true
	}
	for _, want := range []string{"core", "doc", "text", "paragraph", "heading", "bold", "italic", "code"} {
		if !names[want] {
			t.Errorf("built set missing %q", want)
		}
	}
}

func TestBuildDisablesExtensions(t *testing.T) {
	off := false
	cfg := &Config{Extensions: map[string]ExtensionConfig{
		"code": {Enabled: &off},
	}}
	exts, err := Build(Builtin(), cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, e := range exts {
		if e.Name() == "code" {
			t.Error("disabled extension was built")
		}
	}
}

func TestBuildUnknownExtension(t *testing.T) {
	cfg := &Config{Extensions: map[string]ExtensionConfig{
		"tables": {},
	}}
	if _, err := Build(Builtin(), cfg); !errors.Is(err, ErrUnknownFactory) {
		t.Errorf("Build() error = %v, want ErrUnknownFactory", err)
	}
}

func TestBuildAppliesOptionsAndPriority(t *testing.T) {
	pri := 42
	cfg := &Config{Extensions: map[string]ExtensionConfig{
		"bold": {
			Priority: &pri,
			Options:  map[string]any{"tag": "b"},
		},
	}}
	exts, err := Build(Builtin(), cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var bold extension.Extension
	for _, e := range exts {
		if e.Name() == "bold" {
			bold = e
		}
	}
	if bold == nil {
		t.Fatal("bold missing from built set")
	}
	if p, ok := bold.(extension.Prioritized); !ok || p.Priority() != 42 {
		t.Errorf("bold priority not overridden to 42")
	}

	m, err := manager.New(exts)
	if err != nil {
		t.Fatalf("manager.New() error = %v", err)
	}
	defer m.Destroy()
	if spec, _ := m.Schema().Mark("bold"); spec.Tag != "b" {
		t.Errorf("bold tag = %q, want configured b", spec.Tag)
	}
}

func TestBuildProducesFreshInstances(t *testing.T) {
	reg := Builtin()
	first, err := Build(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Build(reg, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Both sets must be independently bindable.
	m1, err := manager.New(first)
	if err != nil {
		t.Fatalf("first manager: %v", err)
	}
	defer m1.Destroy()
	m2, err := manager.New(second)
	if err != nil {
		t.Fatalf("second manager: %v", err)
	}
	defer m2.Destroy()
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got []extension.Extension
	var gotErr error
	reloaded := make(chan struct{}, 4)

	w := NewWatcher(Builtin(), path, 20*time.Millisecond, func(exts []extension.Extension, err error) {
		mu.Lock()
		got = exts
		gotErr = err
		mu.Unlock()
		reloaded <- struct{}{}
	})
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Close()

	config := `
[extensions.code]
enabled = false
`
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload within 3s")
	}

	mu.Lock()
	defer mu.Unlock()
	if gotErr != nil {
		t.Fatalf("reload error = %v", gotErr)
	}
	for _, e := range got {
		if e.Name() == "code" {
			t.Error("reloaded set includes disabled extension")
		}
	}
}

func TestWatcherClosedStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher(Builtin(), path, 0, func([]extension.Extension, error) {})
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Start(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Start() after Close error = %v, want ErrWatcherClosed", err)
	}
}
