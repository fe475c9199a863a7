package folio

import (
	"context"

	"github.com/folioworks/folio/date"
)

// Valuation answers point-in-time questions about a portfolio. It only reads
// the transaction history and the price source, never the live position
// state, so past valuations stay stable as new trades come in.
type Valuation struct {
	store  Storage
	prices PriceSource
}

// NewValuation returns a valuation service over a store and a price source.
func NewValuation(store Storage, prices PriceSource) *Valuation {
	return &Valuation{store: store, prices: prices}
}

// QuantityAt replays the position's trade history and returns the quantity
// held at the end of the target day. Transactions dated after the day are
// ignored, ties on the same instant replay in stored order.
func (v *Valuation) QuantityAt(ctx context.Context, position string, on date.Date) (Quantity, error) {
	history, err := v.store.TransactionsByPosition(ctx, position)
	if err != nil {
		return Quantity{}, err
	}
	qty := Q(0)
	for _, tx := range history {
		if tx.Day().After(on) {
			continue
		}
		switch tx.Type {
		case TxBuy:
			qty = qty.Add(tx.Quantity)
		case TxSell:
			qty = qty.Sub(tx.Quantity)
		}
	}
	return qty, nil
}

// ValueAt returns the total value of a portfolio at the end of the target
// day.
//
// Each position contributes its replayed quantity times the latest price
// dated on or before the day. A position with no held quantity, or an asset
// with no usable price yet, contributes zero; missing price data is not an
// error. The total is truncated at 8 fractional digits.
func (v *Valuation) ValueAt(ctx context.Context, portfolio string, on date.Date) (Money, error) {
	positions, err := v.store.PositionsByPortfolio(ctx, portfolio)
	if err != nil {
		return Money{}, err
	}

	var total Money
	for _, pos := range positions {
		qty, err := v.QuantityAt(ctx, pos.ID, on)
		if err != nil {
			return Money{}, err
		}
		if !qty.IsPositive() {
			continue
		}
		price, ok := v.prices.LatestOnOrBefore(pos.Asset, on)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(qty))
	}
	return total.Quantize(), nil
}

// UnrealizedAt values the open gain of a position at the end of the target
// day, using the live average cost and the price dated on or before the day.
// It returns false when no price is available.
func (v *Valuation) UnrealizedAt(ctx context.Context, position string, on date.Date) (Money, bool, error) {
	pos, err := v.store.GetPosition(ctx, position)
	if err != nil {
		return Money{}, false, err
	}
	price, ok := v.prices.LatestOnOrBefore(pos.Asset, on)
	if !ok {
		return Money{}, false, nil
	}
	return pos.UnrealizedPnL(price), true, nil
}
