package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/contract"
	"github.com/etnz/contract/renderer"
	"github.com/google/subcommands"
)

// --- Status Command ---

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show the owner and the balance of the contract" }
func (*statusCmd) Usage() string {
	return `contractctl [-owner <owner>] status

  Shows the owner, the contract id and the balance of the contract.
`
}
func (*statusCmd) SetFlags(f *flag.FlagSet) {}
func (*statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, err := openContract(ctx)
	if err != nil {
		return fail(err)
	}
	defer sess.Close()

	c := sess.contract
	owner, balance := c.Status()
	printMarkdown(renderer.RenderStatus(renderer.Status{
		Owner:      owner,
		ContractID: c.ID(),
		Balance:    balance,
		Currency:   sess.cfg.Currency,
		Created:    c.CreatedAt(),
	}))
	return subcommands.ExitSuccess
}

// --- Deposit Command ---

type depositCmd struct {
	amount int64
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add an amount to the balance" }
func (*depositCmd) Usage() string {
	return `contractctl deposit -amount <minor units>

  Records a deposit. The amount is an integer in minor units of the configured
  currency (cents for EUR) and must be positive.
`
}
func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.amount, "amount", 0, "Amount to deposit, in minor units")
}
func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, err := openContract(ctx)
	if err != nil {
		return fail(err)
	}
	defer sess.Close()

	tx, err := sess.contract.Deposit(ctx, sess.store, c.amount)
	if err != nil {
		return fail(err)
	}
	sess.publish(ctx, []contract.Transaction{tx})
	fmt.Printf("%s, balance %s\n", renderer.Transaction(tx, sess.cfg.Currency), sess.money(sess.contract.Balance()))
	return subcommands.ExitSuccess
}

// --- Withdraw Command ---

type withdrawCmd struct {
	amount int64
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "remove an amount from the balance" }
func (*withdrawCmd) Usage() string {
	return `contractctl withdraw -amount <minor units>

  Records a withdrawal. The amount is an integer in minor units and must be
  positive and no larger than the balance.
`
}
func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.amount, "amount", 0, "Amount to withdraw, in minor units")
}
func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, err := openContract(ctx)
	if err != nil {
		return fail(err)
	}
	defer sess.Close()

	tx, err := sess.contract.Withdraw(ctx, sess.store, c.amount)
	if err != nil {
		return fail(err)
	}
	sess.publish(ctx, []contract.Transaction{tx})
	fmt.Printf("%s, balance %s\n", renderer.Transaction(tx, sess.cfg.Currency), sess.money(sess.contract.Balance()))
	return subcommands.ExitSuccess
}
