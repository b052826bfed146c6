package config

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/markupcore/internal/config/watcher"
)

// DefaultDebounce is how long a configuration file must be quiet before it
// is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file whenever it changes and delivers
// the result on Updates. Failed reloads are delivered on Errors; the owner
// keeps its previous configuration.
type Watcher struct {
	path     string
	loadOpts []LoadOption
	debounce time.Duration
	logger   zerolog.Logger

	files   *watcher.Watcher
	updates chan *Config
	errs    chan error

	// done is closed first on Close so that blocked senders give up;
	// sendMu then keeps the channels open until every sender is gone.
	done      chan struct{}
	sendMu    sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WatchDebounce sets the debounce interval.
func WatchDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WatchLogger sets the logger.
func WatchLogger(logger zerolog.Logger) WatchOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WatchLoadOptions sets the options used for every reload.
func WatchLoadOptions(opts ...LoadOption) WatchOption {
	return func(w *Watcher) {
		w.loadOpts = opts
	}
}

// NewWatcher starts watching the configuration file at path. The file is
// not loaded until it changes or Reload is called.
func NewWatcher(path string, opts ...WatchOption) (*Watcher, error) {
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		logger:   zerolog.Nop(),
		updates:  make(chan *Config, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.files = watcher.New(watcher.WithDebounce(w.debounce), watcher.WithLogger(w.logger))
	if err := w.files.Watch(path); err != nil {
		return nil, err
	}
	w.files.OnChange(w.handle)
	if err := w.files.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

// Updates delivers reloaded configurations. It is closed by Close.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Errors delivers reload failures. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) handle(ev watcher.Event) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		// Wait for the file to come back.
		w.logger.Debug().Str("path", ev.Path).Stringer("op", ev.Op).Msg("config file went away")
		return
	}
	_ = w.Reload()
}

// Reload loads the file now and delivers the result. It blocks until the
// result is received or the watcher is closed.
func (w *Watcher) Reload() error {
	w.sendMu.RLock()
	defer w.sendMu.RUnlock()
	if w.closed {
		return ErrWatcherClosed
	}

	cfg, err := Load(w.path, w.loadOpts...)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", w.path).Msg("config reload failed")
		select {
		case w.errs <- err:
		case <-w.done:
		}
		return err
	}

	w.logger.Info().Str("path", w.path).Msg("config reloaded")
	select {
	case w.updates <- cfg:
		return nil
	case <-w.done:
		return ErrWatcherClosed
	}
}

// Close stops watching and closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.files.Stop()

		w.sendMu.Lock()
		w.closed = true
		close(w.updates)
		close(w.errs)
		w.sendMu.Unlock()
	})
	return err
}
