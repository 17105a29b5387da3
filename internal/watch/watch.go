package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/aledsdavies/dial/pkgs/vocab"
)

// Watcher rebuilds a registry whenever its vocabulary file changes.
//
// The containing directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still observed.
type Watcher struct {
	path        string
	bind        vocab.Binder
	logger      *slog.Logger
	fingerprint string
	fs          *fsnotify.Watcher
}

// New watches path. current is the fingerprint of the registry already in
// use; reloads producing the same fingerprint are skipped.
func New(path string, bind vocab.Binder, current string, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:        abs,
		bind:        bind,
		logger:      logger,
		fingerprint: current,
		fs:          fsw,
	}, nil
}

// Reload reads the vocabulary file. It reports changed=false, with a nil
// registry, when the grammar is identical to the one in use.
func (w *Watcher) Reload() (reg *vocab.Registry, changed bool, err error) {
	reg, err = vocab.LoadRegistry(w.path, w.bind)
	if err != nil {
		return nil, false, err
	}
	fp, err := reg.Fingerprint()
	if err != nil {
		return nil, false, err
	}
	if fp == w.fingerprint {
		return nil, false, nil
	}
	w.fingerprint = fp
	return reg, true, nil
}

// Run delivers every changed registry to onReload until ctx is done or the
// watcher is closed. A document that fails to load is logged, handed to
// onReject when it is non-nil, and the previous registry stays in effect.
func (w *Watcher) Run(ctx context.Context, onReload func(*vocab.Registry), onReject func(error)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("vocabulary watch error", "error", err)
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			reg, changed, err := w.Reload()
			if err != nil {
				w.logger.Warn("vocabulary reload rejected", "path", w.path, "error", err)
				if onReject != nil {
					onReject(err)
				}
				continue
			}
			if !changed {
				w.logger.Debug("vocabulary unchanged", "path", w.path)
				continue
			}
			w.logger.Info("vocabulary reloaded", "path", w.path, "fingerprint", w.fingerprint[:12])
			onReload(reg)
		}
	}
}

// Fingerprint returns the fingerprint of the registry last delivered
func (w *Watcher) Fingerprint() string {
	return w.fingerprint
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}
