package commands

import (
	"fmt"

	"git.home.luguber.info/inful/mdrender/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool   `help:"Overwrite an existing configuration file"`
	Path  string `arg:"" optional:"" help:"Where to write the file" default:"mdrender.yaml"`
}

func (i *InitCmd) Run(g *Global, _ *CLI) error {
	if err := config.Init(i.Path, i.Force); err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "Wrote %s\n", i.Path)
	return nil
}
