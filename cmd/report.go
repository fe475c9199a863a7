package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/folioworks/folio"
	"github.com/folioworks/folio/date"
)

// --- Value Command ---

type valueCmd struct {
	portfolio string
	day       string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "compute the point-in-time value of a portfolio" }
func (*valueCmd) Usage() string {
	return `folio value -pf <portfolio> [-d <date>]

  Values the portfolio at the end of a day by replaying its trade history and
  pricing each position with the latest close on or before that day. The
  result only depends on transactions and prices dated on or before the day.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "pf", "", "Portfolio id")
	f.StringVar(&c.day, "d", date.Today().String(), "Valuation date (YYYY-MM-DD)")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.day)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	market, err := DecodeMarketData()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	v := folio.NewValuation(store, market)
	total, err := v.ValueAt(ctx, c.portfolio, day)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio value\n\n")
	fmt.Fprintf(&b, "| Portfolio | Date | Value |\n")
	fmt.Fprintf(&b, "|---|---|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s |\n", c.portfolio, day, total.Decimal())
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// --- Positions Command ---

type positionsCmd struct {
	portfolio string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list portfolio positions with unrealized gains" }
func (*positionsCmd) Usage() string {
	return `folio positions -pf <portfolio>

  Lists the positions of a portfolio with their quantity, average cost, and
  unrealized gain at the latest known price.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "pf", "", "Portfolio id")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	market, err := DecodeMarketData()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
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

	var b strings.Builder
	fmt.Fprintf(&b, "# Positions\n\n")
	fmt.Fprintf(&b, "| Asset | Broker | Quantity | Avg Cost | Last Price | Unrealized |\n")
	fmt.Fprintf(&b, "|---|---|---:|---:|---:|---:|\n")
	for _, pos := range positions {
		last, unrealized := "n/a", "n/a"
		if _, price, ok := market.Latest(pos.Asset); ok {
			last = price.Decimal()
			unrealized = pos.UnrealizedPnL(price).Decimal()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			pos.Asset, pos.Broker, pos.Quantity, pos.AverageCost.Decimal(), last, unrealized)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// --- Gains Command ---

type gainsCmd struct {
	portfolio string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "report realized gains per position" }
func (*gainsCmd) Usage() string {
	return `folio gains -pf <portfolio>

  Sums the realized gain of every sell in each position's history. Gains are
  computed against the average cost in force at sale time.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "pf", "", "Portfolio id")
}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	market, err := DecodeMarketData()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
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
	proc := folio.NewProcessor(store, market, logger())

	var b strings.Builder
	fmt.Fprintf(&b, "# Realized gains\n\n")
	fmt.Fprintf(&b, "| Asset | Broker | Realized |\n")
	fmt.Fprintf(&b, "|---|---|---:|\n")
	for _, pos := range positions {
		realized, err := proc.RealizedGains(ctx, pos.ID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", pos.Asset, pos.Broker, realized.Decimal())
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
