package main

import (
	"flag"

	"github.com/etnz/contract/cmd"
	"github.com/etnz/contract/docs"
	"github.com/etnz/contract/migration"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors overrides the default prediction of a flag, by name.
var flagPredictors = map[string]complete.Predictor{
	"config":    predict.Files("*.yaml"),
	"driver":    predict.Set{"sqlite", "postgres"},
	"filename":  predict.Set(migration.Builtin().Names()),
	"input":     predict.Files("*.csv"),
	"in":        predict.Files("*.jsonl"),
	"out":       predict.Files("*.jsonl"),
	"delimiter": predict.Set{",", ";", "|", `\t`},
}

// completion describes the command line of contractctl for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictFlags(flag.CommandLine),
	}
	for _, cmds := range cmd.Commands() {
		for _, c := range cmds {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			sub := &complete.Command{Flags: predictFlags(f)}
			if c.Name() == "topic" {
				topics, _ := docs.All()
				sub.Args = predict.Set(topics)
			}
			root.Sub[c.Name()] = sub
		}
	}
	for _, help := range []string{"help", "flags", "commands"} {
		root.Sub[help] = &complete.Command{}
	}
	return root
}

func predictFlags(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if p, ok := flagPredictors[fl.Name]; ok {
			flags[fl.Name] = p
			return
		}
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}
