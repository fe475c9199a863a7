package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/folioworks/folio"
	"github.com/folioworks/folio/date"
)

// parseWhen accepts a full RFC-3339 instant or a plain date, which stands for
// midnight UTC of that day.
func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(date.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, want RFC-3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// submitTrade runs the shared buy/sell flow: resolve the position, submit the
// trade through the processor, report the result.
func submitTrade(ctx context.Context, side folio.TxType, asset, broker, portfolio, quantity, price, when string) subcommands.ExitStatus {
	qty, err := folio.ParseQuantity(quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity %q: %v\n", quantity, err)
		return subcommands.ExitUsageError
	}
	instant, err := parseWhen(when)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	market, err := DecodeMarketData()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	def, ok := market.Get(asset)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: asset %q is not declared, run add-asset first\n", asset)
		return subcommands.ExitFailure
	}
	unitPrice, err := folio.ParseMoney(price, def.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price %q: %v\n", price, err)
		return subcommands.ExitUsageError
	}

	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	proc := folio.NewProcessor(store, market, logger())
	pos, err := proc.OpenPosition(ctx, portfolio, asset, broker, def.Currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := proc.Submit(ctx, pos.ID, side, qty, unitPrice, instant)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s %s %s @ %s (transaction %s)\n", tx.Type, tx.Quantity, asset, unitPrice.Decimal(), tx.ID)
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct {
	asset     string
	broker    string
	portfolio string
	quantity  string
	price     string
	when      string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase units to open or add to a position" }
func (*buyCmd) Usage() string {
	return `folio buy -a <asset> -b <broker> -q <quantity> -p <price> [-pf <portfolio>] [-d <timestamp>]

  Purchases units of an asset. The trade is recorded with a balanced pair of
  ledger entries and the position's average cost is recomputed over its full
  buy history.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset symbol")
	f.StringVar(&c.broker, "b", "", "Broker holding the position")
	f.StringVar(&c.portfolio, "pf", "", "Portfolio id (optional)")
	f.StringVar(&c.quantity, "q", "", "Number of units")
	f.StringVar(&c.price, "p", "", "Price per unit")
	f.StringVar(&c.when, "d", time.Now().UTC().Format(time.RFC3339), "Transaction timestamp")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" || c.broker == "" || c.quantity == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return submitTrade(ctx, folio.TxBuy, c.asset, c.broker, c.portfolio, c.quantity, c.price, c.when)
}

// --- Sell Command ---

type sellCmd struct {
	asset     string
	broker    string
	portfolio string
	quantity  string
	price     string
	when      string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell units to trim or close a position" }
func (*sellCmd) Usage() string {
	return `folio sell -a <asset> -b <broker> -q <quantity> -p <price> [-pf <portfolio>] [-d <timestamp>]

  Sells units of an asset. The realized gain is computed against the average
  cost in force at sale time, the average cost itself is left untouched.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset symbol")
	f.StringVar(&c.broker, "b", "", "Broker holding the position")
	f.StringVar(&c.portfolio, "pf", "", "Portfolio id (optional)")
	f.StringVar(&c.quantity, "q", "", "Number of units")
	f.StringVar(&c.price, "p", "", "Price per unit")
	f.StringVar(&c.when, "d", time.Now().UTC().Format(time.RFC3339), "Transaction timestamp")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" || c.broker == "" || c.quantity == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return submitTrade(ctx, folio.TxSell, c.asset, c.broker, c.portfolio, c.quantity, c.price, c.when)
}
