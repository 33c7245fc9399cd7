// Package watch reports changed markdown files under a directory tree.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdrender/internal/config"
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
)

// Handler receives the files that changed during one debounce window,
// sorted.
type Handler func(ctx context.Context, paths []string)

// Watcher watches root and every directory created below it.
type Watcher struct {
	root     string
	debounce time.Duration
	exts     map[string]bool
	handler  Handler
	fsw      *fsnotify.Watcher
}

// New starts watching root. Events are only delivered once Run is called.
func New(root string, cfg config.WatchConfig, h Handler) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot watch directory").
			WithContext("path", root).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ValidationError("watch target is not a directory").
			WithContext("path", root).
			Build()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "fsnotify").Build()
	}
	w := &Watcher{
		root:     root,
		debounce: cfg.Debounce,
		exts:     make(map[string]bool, len(cfg.Extensions)),
		handler:  h,
		fsw:      fsw,
	}
	for _, ext := range cfg.Extensions {
		w.exts[strings.ToLower(ext)] = true
	}
	if err := w.addDirsRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers debounced batches to the handler until ctx is cancelled.
// The handler runs on the Run goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.accept(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			armed = true
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		case <-timer.C:
			armed = false
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			w.handler(ctx, paths)
		}
	}
}

// accept reports whether ev names a written markdown file. New
// directories are added to the watch as a side effect.
func (w *Watcher) accept(ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
			return false
		}
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if !w.exts[strings.ToLower(filepath.Ext(ev.Name))] {
		return false
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
	return true
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent filters hidden files and editor scratch files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
