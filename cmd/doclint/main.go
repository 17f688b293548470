package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doclint/cmd/doclint/commands"
	"git.home.luguber.info/inful/doclint/internal/errors"
	"git.home.luguber.info/inful/doclint/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("doclint"),
		kong.Description("Lint a documentation tree and the Jupyter notebooks inside it."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
