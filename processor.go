package folio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// defaultMaxRetries bounds the number of attempts Submit makes when the
// store reports a version conflict.
const defaultMaxRetries = 3

// Processor is the single write path for trades. Every submitted trade is
// validated, serialized against other trades on the same position, and
// committed atomically: the transaction, its two ledger entries and the
// position update land together or not at all.
type Processor struct {
	store      Storage
	market     *MarketData
	locks      *positionLocks
	log        zerolog.Logger
	maxRetries int
}

// NewProcessor returns a processor writing to the given store. Prices and
// asset definitions are resolved against the market data registry.
func NewProcessor(store Storage, market *MarketData, log zerolog.Logger) *Processor {
	return &Processor{
		store:      store,
		market:     market,
		locks:      newPositionLocks(),
		log:        log,
		maxRetries: defaultMaxRetries,
	}
}

// OpenPosition creates an empty position for an (asset, broker) pair,
// attached to a portfolio when portfolio is non-empty. The asset must be
// declared in the market data registry. Opening an already held pair returns
// the existing position.
func (p *Processor) OpenPosition(ctx context.Context, portfolio, asset, broker, currency string) (*Position, error) {
	if !p.market.Has(asset) {
		return nil, fmt.Errorf("asset %q: %w", asset, ErrNotFound)
	}
	if broker == "" {
		return nil, fmt.Errorf("%w: position needs a broker", ErrInvalidInput)
	}
	if existing, err := p.store.FindPosition(ctx, asset, broker); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	pos := NewPosition(portfolio, asset, broker, currency)
	if err := p.store.SavePosition(ctx, pos); err != nil {
		return nil, err
	}
	p.log.Debug().Str("position", pos.ID).Str("asset", asset).Str("broker", broker).Msg("position opened")
	return pos, nil
}

// Submit processes one trade against a position.
//
// It validates the request, then under the position's lock loads the current
// state, applies the trade, and commits the four effects in one atomic store
// update. A version conflict from the store triggers a reload and retry, a
// bounded number of times, before surfacing ErrConflict to the caller.
//
// On a BUY the average cost is recomputed over the complete buy history
// including the new trade. On a SELL the average cost is left untouched and
// its current value is snapshotted on the transaction as the cost basis.
func (p *Processor) Submit(ctx context.Context, position string, side TxType, quantity Quantity, price Money, when time.Time) (Transaction, error) {
	tx := Transaction{Position: position, Type: side, Quantity: quantity, Price: price, When: when}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}

	p.locks.Lock(position)
	defer p.locks.Unlock(position)

	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		tx, err := p.attempt(ctx, position, side, quantity, price, when)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, ErrConflict) {
			return Transaction{}, err
		}
		lastErr = err
		p.log.Debug().Str("position", position).Int("attempt", attempt+1).Msg("trade conflicted, retrying")
	}
	return Transaction{}, fmt.Errorf("trade on position %q not committed after %d attempts: %w", position, p.maxRetries, lastErr)
}

// attempt runs one load-compute-commit cycle.
func (p *Processor) attempt(ctx context.Context, position string, side TxType, quantity Quantity, price Money, when time.Time) (Transaction, error) {
	pos, err := p.store.GetPosition(ctx, position)
	if err != nil {
		return Transaction{}, err
	}

	var tx Transaction
	switch side {
	case TxBuy:
		tx = NewBuy(position, quantity, price, when)
		history, err := p.store.TransactionsByPosition(ctx, position)
		if err != nil {
			return Transaction{}, err
		}
		pos.ApplyBuy(quantity)
		pos.RecalculateAverageCost(append(history, tx))
	case TxSell:
		tx = NewSell(position, quantity, price, when)
		tx.CostBasis = pos.AverageCost
		pos.ApplySell(quantity)
	}

	debit, credit, err := Record(tx, pos.Asset)
	if err != nil {
		return Transaction{}, err
	}

	upd := TradeUpdate{Transaction: tx, Entries: [2]LedgerEntry{debit, credit}, Position: pos}
	if err := p.store.ApplyTrade(ctx, upd); err != nil {
		return Transaction{}, err
	}

	p.log.Debug().
		Str("position", position).
		Str("type", string(side)).
		Str("quantity", quantity.String()).
		Str("price", price.Decimal()).
		Str("avg_cost", pos.AverageCost.Decimal()).
		Msg("trade committed")
	return tx, nil
}

// RealizedGains sums the realized gain of every SELL in the position's
// history.
func (p *Processor) RealizedGains(ctx context.Context, position string) (Money, error) {
	history, err := p.store.TransactionsByPosition(ctx, position)
	if err != nil {
		return Money{}, err
	}
	var total Money
	for _, tx := range history {
		total = total.Add(RealizedPnL(tx))
	}
	return total.Quantize(), nil
}
