// Command contractctl manages the balance and the transaction log of a contract.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/contract/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	// completion exits when the shell asks for candidates.
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()

	if sub := flag.Arg(0); sub != "" && !isBuiltin(sub) && !cmd.IsCommand(sub) {
		if found, status := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(status)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func isBuiltin(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	return false
}
