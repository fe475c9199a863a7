package folio

import (
	"fmt"
	"iter"

	"github.com/folioworks/folio/date"
)

// PriceSource yields daily close prices for valuation. The second return
// reports whether any price exists on or before the day.
type PriceSource interface {
	LatestOnOrBefore(symbol string, day date.Date) (Money, bool)
}

// assetPrices pairs an asset definition with its daily close history.
type assetPrices struct {
	asset  Asset
	prices date.History[Money]
}

// MarketData is the registry of declared assets and their daily prices.
// Prices are append-only: one close per (asset, day), never rewritten.
type MarketData struct {
	assets []*assetPrices
	index  map[string]*assetPrices
}

// NewMarketData returns a new empty market data collection.
func NewMarketData() *MarketData {
	return &MarketData{
		assets: make([]*assetPrices, 0),
		index:  make(map[string]*assetPrices),
	}
}

var _ PriceSource = (*MarketData)(nil)

// Declare registers an asset. Declaring an existing symbol updates its name
// and keeps the price history.
func (m *MarketData) Declare(a Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if e, ok := m.index[a.Symbol]; ok {
		e.asset = a
		return nil
	}
	e := &assetPrices{asset: a}
	m.assets = append(m.assets, e)
	m.index[a.Symbol] = e
	return nil
}

// Has reports whether the symbol is declared.
func (m *MarketData) Has(symbol string) bool {
	_, ok := m.index[symbol]
	return ok
}

// Get returns the asset definition for a symbol.
func (m *MarketData) Get(symbol string) (Asset, bool) {
	e, ok := m.index[symbol]
	if !ok {
		return Asset{}, false
	}
	return e.asset, true
}

// Assets returns an iterator over declared assets, in declaration order.
func (m *MarketData) Assets() iter.Seq[Asset] {
	return func(yield func(Asset) bool) {
		for _, e := range m.assets {
			if !yield(e.asset) {
				return
			}
		}
	}
}

// AddPrice records the close price of an asset on a day.
//
// The asset must be declared, and a day can be priced only once.
func (m *MarketData) AddPrice(symbol string, day date.Date, price Money) error {
	e, ok := m.index[symbol]
	if !ok {
		return fmt.Errorf("asset %q: %w", symbol, ErrNotFound)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price for %s on %s must be positive", ErrInvalidInput, symbol, day)
	}
	if e.prices.Has(day) {
		return fmt.Errorf("%s on %s: %w", symbol, day, ErrDuplicatePrice)
	}
	e.prices.Append(day, price.Quantize())
	return nil
}

// PriceOn returns the close recorded exactly on the given day.
func (m *MarketData) PriceOn(symbol string, day date.Date) (Money, bool) {
	e, ok := m.index[symbol]
	if !ok {
		return Money{}, false
	}
	return e.prices.Get(day)
}

// LatestOnOrBefore returns the most recent close dated on or before the day.
func (m *MarketData) LatestOnOrBefore(symbol string, day date.Date) (Money, bool) {
	e, ok := m.index[symbol]
	if !ok {
		return Money{}, false
	}
	return e.prices.ValueAsOf(day)
}

// Latest returns the most recent close and its date.
func (m *MarketData) Latest(symbol string) (date.Date, Money, bool) {
	e, ok := m.index[symbol]
	if !ok || e.prices.Len() == 0 {
		return date.Date{}, Money{}, false
	}
	day, price := e.prices.Latest()
	return day, price, true
}

// Prices returns an iterator over the price history of a symbol.
func (m *MarketData) Prices(symbol string) iter.Seq2[date.Date, Money] {
	return func(yield func(date.Date, Money) bool) {
		e, ok := m.index[symbol]
		if !ok {
			return
		}
		for day, price := range e.prices.Values() {
			if !yield(day, price) {
				return
			}
		}
	}
}
