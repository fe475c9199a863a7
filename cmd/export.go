package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/folioworks/folio"
)

type exportCmd struct {
	portfolio string
	output    string
	entries   bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the trade journal as JSONL" }
func (*exportCmd) Usage() string {
	return `folio export -pf <portfolio> [-o <file>] [-entries]

  Writes the portfolio's transactions, and with -entries their ledger
  entries, as JSONL with a stable field order. Defaults to stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "pf", "", "Portfolio id")
	f.StringVar(&c.output, "o", "", "Output file, defaults to stdout")
	f.BoolVar(&c.entries, "entries", false, "Also export the ledger entries of each transaction")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}

	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	positions, err := store.PositionsByPortfolio(ctx, c.portfolio)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	for _, pos := range positions {
		txs, err := store.TransactionsByPosition(ctx, pos.ID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		for _, tx := range txs {
			if err := folio.EncodeTransaction(w, tx); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return subcommands.ExitFailure
			}
			if !c.entries {
				continue
			}
			entries, err := store.EntriesByTransaction(ctx, tx.ID)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return subcommands.ExitFailure
			}
			for _, e := range entries {
				if err := folio.EncodeEntry(w, e); err != nil {
					fmt.Fprintln(os.Stderr, "Error:", err)
					return subcommands.ExitFailure
				}
			}
		}
	}
	return subcommands.ExitSuccess
}
