package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/logger"
)

// ChangeCallback is called once per debounced batch of input changes.
type ChangeCallback func() error

// InputWatcher watches generator inputs (config file, manifest, template
// directory) and calls back after changes settle.
type InputWatcher struct {
	watcher        *fsnotify.Watcher
	callback       ChangeCallback
	mu             sync.Mutex
	running        sync.Mutex // held for a whole callback
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	done           chan struct{}
}

// NewInputWatcher watches every existing path in paths. Missing paths and
// remote sources are skipped.
func NewInputWatcher(callback ChangeCallback, paths ...string) (*InputWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	watched := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", p)
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return nil, errors.New("no local inputs to watch")
	}

	return &InputWatcher{
		watcher:        watcher,
		callback:       callback,
		debouncePeriod: 300 * time.Millisecond,
		done:           make(chan struct{}),
	}, nil
}

// Start begins watching for changes
func (w *InputWatcher) Start() {
	go w.watchLoop()
}

func (w *InputWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if isEditorTempFile(event.Name) {
				continue
			}
			logger.Debugw("Input changed", logger.FieldPath, event.Name, "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Input watcher error", logger.FieldError, err)

		case <-w.done:
			return
		}
	}
}

// schedule debounces rapid file changes
func (w *InputWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.run)
}

// run calls the callback for one batch, waiting for any batch in progress.
func (w *InputWatcher) run() {
	w.running.Lock()
	defer w.running.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	Reset()
	if err := w.callback(); err != nil {
		logger.Errorw("Regeneration failed", logger.FieldError, err)
	}
}

// Stop stops watching for changes and waits for a running callback.
func (w *InputWatcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	close(w.done)

	w.running.Lock()
	defer w.running.Unlock()
	return w.watcher.Close()
}

func isEditorTempFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasPrefix(base, ".#")
}
