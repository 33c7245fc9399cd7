package commands

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/config"
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	RenderFlags
	Output    string `short:"o" help:"Output directory (default: output.dir; next to each source when both are empty)"`
	NoInitial bool   `name:"no-initial" help:"Do not render existing files at startup"`
	Dir       string `arg:"" name:"dir" help:"Directory to watch"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	svc, err := w.service(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	outDir := w.Output
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	render := func(ctx context.Context, paths []string) {
		for _, path := range paths {
			dest := outputPath(path, w.Dir, outDir, cfg.Output.Extension)
			if err := renderTo(ctx, g, svc, path, dest); err != nil {
				slog.Warn("Render failed", logfields.Document(path), slog.String("reason", describe(err)))
			}
		}
	}

	if !w.NoInitial {
		paths, err := markdownFiles(w.Dir, cfg.Watch)
		if err != nil {
			return err
		}
		render(g.Context, paths)
	}

	watcher, err := watch.New(w.Dir, cfg.Watch, render)
	if err != nil {
		return err
	}
	slog.Info("Watching for changes", logfields.Path(w.Dir))
	return watcher.Run(g.Context)
}

func markdownFiles(root string, cfg config.WatchConfig) ([]string, error) {
	exts := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[strings.ToLower(ext)] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(path))] && !strings.HasPrefix(d.Name(), ".") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list markdown files").
			WithContext("path", root).
			Build()
	}
	return paths, nil
}
