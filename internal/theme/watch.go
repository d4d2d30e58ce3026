package theme

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/logger"
)

// Watcher reloads a palette file whenever it changes on disk.
// Parsed palettes are delivered on Updates; only the newest one is kept
// if the consumer falls behind.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	updates chan *Palette
	done    chan struct{}
	log     *zap.Logger
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file atomically are picked up.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		updates: make(chan *Palette, 1),
		done:    make(chan struct{}),
		log:     logger.Named("theme"),
	}
	go w.loop()
	return w, nil
}

// Updates delivers freshly parsed palettes.
func (w *Watcher) Updates() <-chan *Palette {
	return w.updates
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("theme watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	p, err := LoadPalette(w.path)
	if err != nil {
		w.log.Warn("palette reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}

	// Replace any palette the consumer has not picked up yet.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- p
	w.log.Info("palette reloaded", zap.String("path", w.path), zap.String("name", p.Name))
}
