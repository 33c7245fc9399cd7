package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/document"
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
)

// stdinName is the document name used for input read from stdin.
const stdinName = "-"

func readSource(g *Global, path string) ([]byte, error) {
	var (
		src []byte
		err error
	)
	if path == stdinName {
		src, err = io.ReadAll(g.Stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}
	return src, nil
}

// outputPath maps a source file to its rendered file. With an empty outDir
// the output lands next to the source; otherwise the path relative to root
// is mirrored below outDir.
func outputPath(path, root, outDir, ext string) string {
	if path == stdinName {
		path = "stdin.md"
	}
	if outDir == "" {
		return strings.TrimSuffix(path, filepath.Ext(path)) + ext
	}
	rel := filepath.Base(path)
	if root != "" {
		if r, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
}

// renderTo renders path and writes it to dest, or to stdout when dest is "".
func renderTo(ctx context.Context, g *Global, svc *document.Service, path, dest string) error {
	src, err := readSource(g, path)
	if err != nil {
		return err
	}
	res, err := svc.Render(ctx, path, src)
	if err != nil {
		return err
	}
	if !res.Rendered {
		slog.Info("Document declined by renderer", logfields.Document(path))
		return nil
	}

	if dest == "" {
		_, err := io.WriteString(g.Stdout, res.HTML)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(dest)).
			Build()
	}
	if err := os.WriteFile(dest, []byte(res.HTML), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", dest).
			Build()
	}
	slog.Info("Rendered document",
		logfields.Document(path),
		logfields.Output(dest),
		logfields.Fingerprint(res.Fingerprint),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return nil
}

func describe(err error) string {
	if ce, ok := errors.AsClassified(err); ok {
		return fmt.Sprintf("%s (%s)", ce.Message(), ce.Category())
	}
	return err.Error()
}
