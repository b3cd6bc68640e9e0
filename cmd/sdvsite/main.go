package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/sportsdataverse/sdvsite/cmd/sdvsite/commands"
	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("sdvsite"),
		kong.Description("Build and preview SportsDataverse documentation sites."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := parser.Run(global, cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
