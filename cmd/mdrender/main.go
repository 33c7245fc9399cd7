package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdrender/cmd/mdrender/commands"
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("mdrender"),
		kong.Description("Render markdown with pluggable renderers."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	global := commands.NewGlobal()
	global.Context = ctx

	err := parser.Run(global, cli)
	stop()
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	os.Exit(0)
}
