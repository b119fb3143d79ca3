package scene

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

const (
	defaultDebounce       = 500 * time.Millisecond
	logMsgSceneChanged    = "scene file changed"
	logMsgSceneReloadFail = "scene reload failed"
	logMsgWatcherError    = "scene watcher error"
	logAttrPath           = "path"
	logAttrError          = "error"
)

var ErrNilChangeHandler = errors.New("nil change handler supplied")
var ErrInvalidDebounce = errors.New("debounce must be positive")

// ChangeHandler receives the freshly loaded scene after each change of the watched file,
// or the error that prevented loading it.
type ChangeHandler func(s Scene, err error)

// WatcherOption defines a functional option for configuring a Watcher.
type WatcherOption func(*Watcher) error

// WithDebounce sets how long the watcher waits after the last write before reloading. Defaults to 500ms.
func WithDebounce(debounce time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if debounce <= 0 {
			return ErrInvalidDebounce
		}

		w.debounce = debounce

		return nil
	}
}

// WithLogger sets the logger for the Watcher.
func WithLogger(logger provenance.Logger) WatcherOption {
	return func(w *Watcher) error {
		w.logger = logger
		return nil
	}
}

// Watcher reloads a scene file whenever it changes.
//
// The parent directory is watched instead of the file itself, so that editors replacing the file
// through a rename keep being observed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange ChangeHandler
	debounce time.Duration
	logger   provenance.Logger
}

// NewWatcher creates a watcher for the scene file at path.
func NewWatcher(path string, onChange ChangeHandler, options ...WatcherOption) (*Watcher, error) {
	if onChange == nil {
		return nil, ErrNilChangeHandler
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scene path: %w", err)
	}

	w := &Watcher{
		path:     absolute,
		onChange: onChange,
		debounce: defaultDebounce,
	}

	for _, option := range options {
		if err := option(w); err != nil {
			return nil, err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absolute)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", absolute, err)
	}

	w.watcher = watcher

	return w, nil
}

// Run watches for changes and calls the change handler, from the calling goroutine, after each debounced
// burst of writes. It blocks until ctx is cancelled and closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		_ = w.watcher.Close()
	}()

	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce.Reset(w.debounce)
			}

		case <-debounce.C:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logError(logMsgWatcherError, err)
		}
	}
}

func (w *Watcher) reload() {
	if w.logger != nil {
		w.logger.Debug(logMsgSceneChanged, logAttrPath, w.path)
	}

	s, err := Load(w.path)
	if err != nil {
		w.logError(logMsgSceneReloadFail, err)
	}

	w.onChange(s, err)
}

func (w *Watcher) logError(msg string, err error) {
	if w.logger != nil {
		w.logger.Error(msg, logAttrPath, w.path, logAttrError, err.Error())
	}
}
