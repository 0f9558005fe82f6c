package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the configuration file when it changes on disk.
type Watcher struct {
	path     string
	onReload func(*Config, error)
	logger   *logrus.Logger

	mu      sync.RWMutex
	current *Config
	reloads atomic.Uint32

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher loads path once and starts watching it for writes. The parent
// directory is watched so that editors saving by renaming a temporary file
// over path keep triggering reloads.
func NewWatcher(path string, logger *logrus.Logger, onReload func(*Config, error)) (*Watcher, error) {
	path = filepath.Clean(path)
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config file %s: %w", path, err)
	}

	w := &Watcher{
		path:     path,
		onReload: onReload,
		logger:   logger,
		current:  cfg,
		fsw:      fsw,
		done:     make(chan struct{}),
	}

	go w.watch()
	return w, nil
}

func (w *Watcher) watch() {
	var timer *time.Timer

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, w.reload)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("Config watcher error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	count := w.reloads.Add(1)
	entry := w.logger.WithFields(logrus.Fields{"path": w.path, "count": count})
	entry.Info("Reloading config file")

	cfg, err := Load(w.path)
	if err != nil {
		entry.WithError(err).Error("Failed to reload config")
		if w.onReload != nil {
			w.onReload(nil, err)
		}
		return
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	entry.Info("Config reloaded successfully")
	if w.onReload != nil {
		w.onReload(cfg, nil)
	}
}

// Snapshot returns the current config.
func (w *Watcher) Snapshot() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// ReloadCount returns the number of reload attempts so far.
func (w *Watcher) ReloadCount() uint32 {
	return w.reloads.Load()
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
