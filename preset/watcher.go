package preset

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/inkwell/extension"
)

// ErrWatcherClosed is returned when a closed watcher is started again.
var ErrWatcherClosed = errors.New("preset watcher closed")

// ReloadFunc receives the rebuilt extension set after the config file
// changes, or the error the rebuild failed with. Called from the
// watcher goroutine.
type ReloadFunc func(exts []extension.Extension, err error)

// Watcher rebuilds a preset whenever its config file changes on disk.
// Bursts of writes within the debounce window collapse into one reload.
type Watcher struct {
	reg      *Registry
	path     string
	debounce time.Duration
	onReload ReloadFunc

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	doneWg  sync.WaitGroup
}

// NewWatcher creates a watcher over a config file. debounce <= 0
// defaults to 100ms.
func NewWatcher(reg *Registry, path string, debounce time.Duration, onReload ReloadFunc) *Watcher {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &Watcher{
		reg:      reg,
		path:     path,
		debounce: debounce,
		onReload: onReload,
		closeCh:  make(chan struct{}),
	}
}

// Start begins watching. The config file's directory is watched rather
// than the file itself, so atomic editor saves (write-temp-then-rename)
// still produce events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	w.path = abs

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw

	w.doneWg.Add(1)
	go w.loop()
	return nil
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	fsw := w.fsw
	w.mu.Unlock()

	var err error
	if fsw != nil {
		err = fsw.Close()
	}
	w.doneWg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.doneWg.Done()
	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload rebuilds the extension set and hands it to the callback.
func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	path := w.path
	w.mu.Unlock()

	exts, err := BuildFile(w.reg, path)
	w.onReload(exts, err)
}
