// Package cmd implements the contractctl command-line application.
package cmd

import (
	"flag"

	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to a YAML configuration file")
	ownerFlag  = flag.String("owner", "", "Owner of the contract (default \"alice\")")
	driverFlag = flag.String("driver", "", "Database driver: sqlite or postgres (default \"sqlite\")")
	dsnFlag    = flag.String("dsn", "", "Data source name of the database (default \"contract.db\")")
	Verbose    = flag.Bool("v", false, "Enable debug logging")
)

// Commands returns the subcommands of contractctl with their group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"contract": {
			&statusCmd{},
			&depositCmd{},
			&withdrawCmd{},
			&historyCmd{},
			&verifyCmd{},
		},
		"data": {
			&exportCmd{},
			&importCmd{},
			&migrateCmd{},
			&profileCmd{},
		},
		"help": {
			&topicCmd{},
		},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// IsCommand reports whether name is a subcommand of contractctl.
func IsCommand(name string) bool {
	for _, cmds := range Commands() {
		for _, cmd := range cmds {
			if cmd.Name() == name {
				return true
			}
		}
	}
	return false
}
