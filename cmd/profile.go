package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/etnz/contract/profile"
	"github.com/etnz/contract/renderer"
	"github.com/google/subcommands"
)

type profileCmd struct {
	input     string
	delimiter string
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "profile a CSV file" }
func (*profileCmd) Usage() string {
	return `contractctl profile -input <file.csv> [-delimiter <char>]

  Reports the number of rows of a CSV file and, per column, the inferred type
  and the number of missing values. Use -delimiter '\t' for tab separated
  files.
`
}
func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "input", "", "CSV file to profile")
	f.StringVar(&c.delimiter, "delimiter", ",", "Field delimiter, a single character")
}
func (c *profileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	delim, err := parseDelimiter(c.delimiter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := profile.File(c.input, delim)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderProfile(renderer.Profile{Input: c.input, Profile: p}))
	return subcommands.ExitSuccess
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) || r == '\n' || r == '\r' || r == '"' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}
