package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/folioworks/folio"
	"github.com/folioworks/folio/date"
)

// --- Add Asset Command ---

type addAssetCmd struct {
	symbol   string
	name     string
	currency string
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "declare an asset in the market data registry" }
func (*addAssetCmd) Usage() string {
	return `folio add-asset -s <symbol> -n <name> [-c <currency>]

  Declares an asset so trades and prices can reference it.
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol, e.g. AAPL")
	f.StringVar(&c.name, "n", "", "Human readable asset name")
	f.StringVar(&c.currency, "c", "USD", "Currency its prices are quoted in")
}

func (c *addAssetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	m, err := DecodeMarketData()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := m.Declare(folio.Asset{Symbol: c.symbol, Name: c.name, Currency: c.currency}); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := EncodeMarketData(m); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Declared asset %s (%s)\n", c.symbol, c.name)
	return subcommands.ExitSuccess
}

// --- Add Price Command ---

type addPriceCmd struct {
	symbol string
	day    string
	price  string
}

func (*addPriceCmd) Name() string     { return "add-price" }
func (*addPriceCmd) Synopsis() string { return "record the daily close price of an asset" }
func (*addPriceCmd) Usage() string {
	return `folio add-price -s <symbol> -d <date> -p <price>

  Records the close of an asset for a day. Prices are append-only, a day
  already priced is rejected.
`
}

func (c *addPriceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol")
	f.StringVar(&c.day, "d", date.Today().String(), "Price date (YYYY-MM-DD)")
	f.StringVar(&c.price, "p", "", "Close price")
}

func (c *addPriceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.day)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	m, err := DecodeMarketData()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	def, ok := m.Get(c.symbol)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: asset %q is not declared, run add-asset first\n", c.symbol)
		return subcommands.ExitFailure
	}
	price, err := folio.ParseMoney(c.price, def.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price %q: %v\n", c.price, err)
		return subcommands.ExitUsageError
	}
	if err := m.AddPrice(c.symbol, day, price); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := EncodeMarketData(m); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s close %s on %s\n", c.symbol, price.Decimal(), day)
	return subcommands.ExitSuccess
}

// --- Fetch Command ---

type fetchCmd struct {
	symbol    string
	url       string
	pricePath string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch today's close price from a JSON HTTP endpoint" }
func (*fetchCmd) Usage() string {
	return `folio fetch -s <symbol> -url <template> [-path <jsonpath>]

  Fetches the latest close of an asset from a JSON endpoint and records it
  under today's date. The url template uses %s for the symbol, the jsonpath
  selects the price in the response.

Usage Examples:
$ folio fetch -s AAPL -url "https://example.com/quote/%s" -path "$.quote.close"
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol")
	f.StringVar(&c.url, "url", "", "Endpoint url template, %s is replaced by the symbol")
	f.StringVar(&c.pricePath, "path", "$.close", "jsonpath of the close price in the response")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.url == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	m, err := DecodeMarketData()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	def, ok := m.Get(c.symbol)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: asset %q is not declared, run add-asset first\n", c.symbol)
		return subcommands.ExitFailure
	}

	feed := folio.NewFeed(c.url, c.pricePath)
	close, err := feed.DailyClose(c.symbol)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	today := date.Today()
	if err := m.AddPrice(c.symbol, today, folio.M(close, def.Currency)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := EncodeMarketData(m); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Fetched %s close %s on %s\n", c.symbol, close, today)
	return subcommands.ExitSuccess
}
