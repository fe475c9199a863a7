package folio

import (
	"github.com/google/uuid"
)

// Position is the holding of one asset at one broker. There is at most one
// position per (asset, broker) pair.
//
// Quantity is signed: selling more than is held leaves a negative quantity.
// Average cost is meaningful for long positions only.
type Position struct {
	ID        string `json:"id" badgerhold:"key"`
	Portfolio string `json:"portfolio,omitempty"` // empty when held outside any portfolio
	Asset     string `json:"asset"`
	Broker    string `json:"broker"`

	Quantity    Quantity `json:"quantity"`
	AverageCost Money    `json:"averageCost"`

	// Version increments on every stored update and backs the optimistic
	// concurrency check in ApplyTrade.
	Version uint64 `json:"version"`
}

// NewPosition creates an empty position for an asset held at a broker.
func NewPosition(portfolio, asset, broker, currency string) *Position {
	return &Position{
		ID:          uuid.NewString(),
		Portfolio:   portfolio,
		Asset:       asset,
		Broker:      broker,
		Quantity:    Q(0),
		AverageCost: zeroMoney(currency),
	}
}

// ApplyBuy increases the held quantity. The average cost is not touched here,
// callers recompute it from the full buy history.
func (p *Position) ApplyBuy(qty Quantity) { p.Quantity = p.Quantity.Add(qty) }

// ApplySell decreases the held quantity. A sell never changes the average
// cost, the cost of the remaining units is what it was.
func (p *Position) ApplySell(qty Quantity) { p.Quantity = p.Quantity.Sub(qty) }

// RecalculateAverageCost recomputes the moving average cost from the complete
// BUY history of the position. Non-buy transactions are ignored. When the
// history holds no buys, or the bought quantity sums to zero, the average
// cost resets to zero.
func (p *Position) RecalculateAverageCost(history []Transaction) {
	totalQty := Q(0)
	totalCost := zeroMoney(p.AverageCost.Currency())
	for _, tx := range history {
		if tx.Type != TxBuy {
			continue
		}
		totalQty = totalQty.Add(tx.Quantity)
		totalCost = totalCost.Add(tx.Price.Mul(tx.Quantity))
	}
	if totalQty.IsZero() {
		p.AverageCost = zeroMoney(p.AverageCost.Currency())
		return
	}
	p.AverageCost = totalCost.Div(totalQty).Quantize()
}

// UnrealizedPnL values the open quantity against a market price:
// (market - average cost) * quantity, truncated at 8 fractional digits.
// It reads state only, it never mutates the position.
func (p *Position) UnrealizedPnL(market Money) Money {
	return market.Sub(p.AverageCost).Mul(p.Quantity).Quantize()
}

// RealizedPnL returns the gain locked in by a transaction:
// (sale price - average cost at sale time) * quantity for a SELL, zero for a
// BUY. The average cost at sale time is the CostBasis snapshot carried by the
// transaction, so the result never drifts when later buys move the average.
func RealizedPnL(tx Transaction) Money {
	if tx.Type != TxSell {
		return zeroMoney(tx.Price.Currency())
	}
	return tx.Price.Sub(tx.CostBasis).Mul(tx.Quantity).Quantize()
}
