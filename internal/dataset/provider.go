// Package dataset owns the loaded salary table. The table is loaded once
// and swapped as a whole when the file changes, so readers never see a
// partially loaded store.
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"salarydash/internal/engine"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Provider loads the CSV at a fixed path and hands out the current store.
type Provider struct {
	path   string
	cols   engine.Columns
	logger *zap.Logger
	store  atomic.Pointer[engine.ColumnStore]
}

func NewProvider(path string, cols engine.Columns, logger *zap.Logger) *Provider {
	return &Provider{path: path, cols: cols, logger: logger}
}

func (p *Provider) Path() string { return p.path }

// Store returns the current store, or nil before the first successful Load.
func (p *Provider) Store() *engine.ColumnStore {
	return p.store.Load()
}

// Load reads the file and replaces the current store. On error the
// previous store stays in place.
func (p *Provider) Load() error {
	store, err := engine.LoadColumnar(p.path, p.cols, p.logger)
	if err != nil {
		return fmt.Errorf("load %s: %w", p.path, err)
	}
	p.store.Store(store)
	return nil
}

// Watch reloads the dataset whenever its file is written or recreated,
// waiting for debounce to pass without further events first. onReload, if
// set, receives each newly loaded store. Watch blocks until ctx is done.
func (p *Provider) Watch(ctx context.Context, debounce time.Duration, onReload func(*engine.ColumnStore)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file, so watch the directory.
	dir := filepath.Dir(p.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(p.path)
	p.logger.Info("watching dataset", zap.String("path", target), zap.Duration("debounce", debounce))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			p.logger.Debug("dataset changed", zap.String("op", ev.Op.String()))
			pending = time.After(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("dataset watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			if err := p.Load(); err != nil {
				p.logger.Error("dataset reload failed, keeping previous data", zap.Error(err))
				continue
			}
			if onReload != nil {
				onReload(p.Store())
			}
		}
	}
}
