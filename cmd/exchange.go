package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/contract"
	"github.com/google/subcommands"
)

// --- Export Command ---

type exportCmd struct {
	out string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the transaction log as JSONL" }
func (*exportCmd) Usage() string {
	return `contractctl export [-out <file>]

  Writes the whole transaction log of the contract, oldest first, one JSON
  object per line. Writes to the standard output unless -out is set.
`
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "", "File to write, standard output by default")
}
func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, err := openContract(ctx)
	if err != nil {
		return fail(err)
	}
	defer sess.Close()

	txs, err := sess.contract.Transactions(ctx, sess.store)
	if err != nil {
		return fail(err)
	}

	if err := writeTransactions(c.out, txs); err != nil {
		return fail(err)
	}
	sess.log.Info("log exported", "transactions", len(txs), "out", c.out)
	return subcommands.ExitSuccess
}

// writeTransactions writes txs as JSONL to path, or to the standard output
// when path is empty. The file is closed before returning so that a late write
// failure is reported.
func writeTransactions(path string, txs []contract.Transaction) (err error) {
	if path == "" {
		return contract.EncodeTransactions(os.Stdout, txs)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close %s: %w", path, cerr)
		}
	}()
	return contract.EncodeTransactions(file, txs)
}

// --- Import Command ---

type importCmd struct {
	in string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "record the transactions of a JSONL file" }
func (*importCmd) Usage() string {
	return `contractctl import -in <file>

  Records every deposit and withdrawal of a JSONL file in a single
  transaction: either all are recorded or none is. Accepts the output of
  export and pcs portfolio ledgers in the configured currency.
`
}
func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "JSONL file to import")
}
func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	file, err := os.Open(c.in)
	if err != nil {
		return fail(err)
	}
	defer file.Close()

	sess, err := openContract(ctx)
	if err != nil {
		return fail(err)
	}
	defer sess.Close()

	imp, err := contract.DecodeImport(file, sess.cfg.Currency)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", c.in, err))
	}
	txs, err := sess.contract.Apply(ctx, sess.store, imp.Entries...)
	if err != nil {
		return fail(err)
	}
	sess.publish(ctx, txs)
	fmt.Printf("Imported %d transactions (%d skipped), balance %s\n", len(txs), imp.Skipped, sess.money(sess.contract.Balance()))
	return subcommands.ExitSuccess
}
