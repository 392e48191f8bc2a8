package registry

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 300 * time.Millisecond

// CatalogWatcher reloads a custom template catalog whenever the file
// changes and hands the rebuilt Registry to onReload. A catalog that fails to
// parse is logged and the previous Registry stays in use.
type CatalogWatcher struct {
	path     string
	onReload func(*Registry)

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	stop    chan struct{}
}

func NewCatalogWatcher(path string, onReload func(*Registry)) *CatalogWatcher {
	return &CatalogWatcher{
		path:     filepath.Clean(path),
		onReload: onReload,
	}
}

// Start begins watching. The parent directory is watched so editors that
// save by renaming a temp file are noticed.
func (w *CatalogWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stop = make(chan struct{})
	go w.loop(watcher, w.stop)

	slog.Debug("Watching template catalog", "path", w.path)
	return nil
}

func (w *CatalogWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return
	}
	close(w.stop)
	_ = w.watcher.Close()
	w.watcher = nil
	w.stop = nil
}

func (w *CatalogWatcher) loop(watcher *fsnotify.Watcher, stop <-chan struct{}) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, w.reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Template catalog watcher error", "error", err)
		}
	}
}

func (w *CatalogWatcher) reload() {
	reg, err := Load(w.path)
	if err != nil {
		slog.Warn("Ignoring invalid template catalog", "path", w.path, "error", err)
		return
	}

	slog.Info("Reloaded template catalog", "path", w.path, "templates", len(reg.Templates()))
	w.onReload(reg)
}
