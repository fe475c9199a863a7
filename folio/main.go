// Command folio is the portfolio accounting CLI.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"

	"github.com/folioworks/folio/cmd"
)

func main() {
	// Shell completion for subcommand names, active only when invoked by the
	// shell's completion machinery.
	sub := make(map[string]*complete.Command)
	for _, name := range cmd.CommandNames() {
		sub[name] = &complete.Command{}
	}
	(&complete.Command{Sub: sub}).Complete("folio")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
