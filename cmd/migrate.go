package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/contract/migration"
	"github.com/etnz/contract/renderer"
	"github.com/google/subcommands"
)

type migrateCmd struct {
	filename string
	list     bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "run a named migration of the store" }
func (*migrateCmd) Usage() string {
	return `contractctl migrate -filename <migration> | -list

  Runs the migration named after the file name, at most once. The directory
  and a .rs, .go or .sql extension are ignored. With -list, shows every
  registered migration and when it was applied.
`
}
func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filename, "filename", "", "Name or file name of the migration to run")
	f.BoolVar(&c.list, "list", false, "List the registered migrations")
}
func (c *migrateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.filename == "") == !c.list {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -filename and -list is required.")
		f.Usage()
		return subcommands.ExitUsageError
	}

	sess, err := openStore(ctx)
	if err != nil {
		return fail(err)
	}
	defer sess.Close()

	runner := migration.NewRunner(sess.store, migration.Builtin())
	if c.list {
		states, err := runner.Status(ctx)
		if err != nil {
			return fail(err)
		}
		printMarkdown(renderer.RenderMigrations(renderer.Migrations{States: states}))
		return subcommands.ExitSuccess
	}

	if err := runner.Run(ctx, c.filename); err != nil {
		return fail(err)
	}
	fmt.Printf("Applied migration %s\n", migration.Resolve(c.filename))
	return subcommands.ExitSuccess
}
