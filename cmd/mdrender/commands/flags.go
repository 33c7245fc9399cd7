package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/mdrender/internal/options"
)

// FlagsCmd implements the 'flags' command.
type FlagsCmd struct{}

func (FlagsCmd) Run(g *Global, _ *CLI) error {
	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FLAG\tKIND\tDESCRIPTION")
	for _, f := range options.Known() {
		kind := "extension"
		if options.IsRenderFlag(f) {
			kind = "render"
		}
		help, _ := options.Describe(f)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f, kind, help)
	}
	fmt.Fprintf(tw, "%s\tsetting\treference label matching: %s\n",
		options.ReferenceLabels, strings.Join(options.LabelModes(), ", "))
	return tw.Flush()
}
