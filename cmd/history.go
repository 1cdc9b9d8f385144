package cmd

import (
	"context"
	"flag"
	"slices"

	"github.com/etnz/contract"
	"github.com/etnz/contract/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct{}

func (*historyCmd) Name() string { return "history" }
func (*historyCmd) Synopsis() string {
	return "show the most recent transactions of the contract"
}
func (*historyCmd) Usage() string {
	return `contractctl history

  Shows the five most recent transactions, newest first.
`
}
func (*historyCmd) SetFlags(f *flag.FlagSet) {}
func (*historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, err := openContract(ctx)
	if err != nil {
		return fail(err)
	}
	defer sess.Close()

	seq, err := sess.contract.History(ctx, sess.store)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderHistory(renderer.History{
		Owner:        sess.contract.Owner(),
		Currency:     sess.cfg.Currency,
		Transactions: slices.Collect(seq),
	}))
	return subcommands.ExitSuccess
}

// --- Verify Command ---

type verifyCmd struct {
	fix bool
}

func (*verifyCmd) Name() string { return "verify" }
func (*verifyCmd) Synopsis() string {
	return "check that the balance matches the transaction log"
}
func (*verifyCmd) Usage() string {
	return `contractctl verify [-fix]

  Replays the whole transaction log and compares it with the stored balance.
  Exits with a failure status if they differ. With -fix, sets the stored
  balance to the replayed one instead; it can be run any number of times.
`
}
func (c *verifyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.fix, "fix", false, "Set the stored balance to the replayed transaction log")
}
func (c *verifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, err := openContract(ctx)
	if err != nil {
		return fail(err)
	}
	defer sess.Close()

	check := sess.contract.Check
	if c.fix {
		check = sess.contract.Rebuild
	}
	v, err := check(ctx, sess.store)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderVerification(renderer.Verification{Currency: sess.cfg.Currency, Rebuilt: c.fix, Verification: v}))
	if !v.OK() && !c.fix {
		return fail(contract.ErrBalanceMismatch)
	}
	return subcommands.ExitSuccess
}
