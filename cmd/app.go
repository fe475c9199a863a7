// Package cmd implements the CLI application to manage a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/folioworks/folio"
	"github.com/folioworks/folio/badgerstore"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addAssetCmd{}, "market")
	c.Register(&addPriceCmd{}, "market")
	c.Register(&fetchCmd{}, "market")

	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")

	c.Register(&valueCmd{}, "reporting")
	c.Register(&positionsCmd{}, "reporting")
	c.Register(&gainsCmd{}, "reporting")
	c.Register(&exportCmd{}, "reporting")
}

// CommandNames returns the names of all registered subcommands, for shell
// completion.
func CommandNames() []string {
	return []string{"add-asset", "add-price", "fetch", "buy", "sell", "value", "positions", "gains", "export"}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data-dir", ".folio", "Path to the trade database folder")
var marketFile = flag.String("market-file", ".market/definition.jsonl", "Path to the market data definition file (JSONL format)")
var logLevel = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")

func logger() zerolog.Logger { return folio.NewLogger(*logLevel) }

// OpenStore opens the trade database folder.
func OpenStore() (*badgerstore.Store, error) {
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create data folder %q: %w", *dataDir, err)
	}
	return badgerstore.Open(*dataDir, logger())
}

// DecodeMarketData decodes assets and prices from the app market data folder.
func DecodeMarketData() (m *folio.MarketData, err error) {
	m, err = folio.DecodeMarketData(*marketFile)
	if errors.Is(err, fs.ErrNotExist) {
		m, err = folio.NewMarketData(), nil
	}
	return
}

// EncodeMarketData encodes assets and prices into the app market data folder.
func EncodeMarketData(m *folio.MarketData) error {
	if err := os.MkdirAll(filepath.Dir(*marketFile), 0755); err != nil {
		return err
	}
	return folio.EncodeMarketData(*marketFile, m)
}
