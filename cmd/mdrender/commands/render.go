package commands

import (
	"git.home.luguber.info/inful/mdrender/internal/metrics"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	RenderFlags
	Output string   `short:"o" help:"Output directory (default: output.dir; stdout when both are empty)"`
	Files  []string `arg:"" name:"file" help:"Markdown files to render; - reads stdin"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	svc, err := r.service(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	outDir := r.Output
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	for _, path := range r.Files {
		dest := ""
		if outDir != "" {
			dest = outputPath(path, "", outDir, cfg.Output.Extension)
		}
		if err := renderTo(g.Context, g, svc, path, dest); err != nil {
			return err
		}
	}
	return nil
}
