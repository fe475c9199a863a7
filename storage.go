package folio

import (
	"context"
	"errors"
)

// Sentinel errors shared by every Storage implementation. Callers match them
// with errors.Is.
var (
	// ErrInvalidInput rejects a malformed request before any effect.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound reports a missing position, portfolio or asset.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a concurrent update detected by the version check.
	// It is retryable.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrDuplicatePrice rejects a second price for the same (asset, day).
	ErrDuplicatePrice = errors.New("duplicate price")
)

// TradeUpdate is the unit of work committed by ApplyTrade. Either all four
// effects land or none: the transaction, both ledger entries, and the new
// position state.
type TradeUpdate struct {
	Transaction Transaction
	Entries     [2]LedgerEntry
	Position    *Position
}

// Storage persists positions, portfolios, trades and their ledger entries.
type Storage interface {
	// GetPortfolio returns a portfolio by id, or ErrNotFound.
	GetPortfolio(ctx context.Context, id string) (Portfolio, error)
	// SavePortfolio creates or updates a portfolio.
	SavePortfolio(ctx context.Context, p Portfolio) error

	// GetPosition returns a position by id, or ErrNotFound.
	GetPosition(ctx context.Context, id string) (*Position, error)
	// FindPosition returns the unique position for an (asset, broker) pair,
	// or ErrNotFound.
	FindPosition(ctx context.Context, asset, broker string) (*Position, error)
	// SavePosition creates or updates a position without a version check.
	// It is meant for setup, trades go through ApplyTrade.
	SavePosition(ctx context.Context, p *Position) error
	// PositionsByPortfolio returns all positions attached to a portfolio.
	PositionsByPortfolio(ctx context.Context, portfolio string) ([]*Position, error)

	// TransactionsByPosition returns the full trade history of a position in
	// (timestamp, seq) order.
	TransactionsByPosition(ctx context.Context, position string) ([]Transaction, error)
	// EntriesByTransaction returns the ledger entries recorded for a
	// transaction.
	EntriesByTransaction(ctx context.Context, transaction string) ([]LedgerEntry, error)

	// ApplyTrade atomically appends the transaction and its entries and
	// updates the position. It assigns the transaction sequence number and
	// fails with ErrConflict when the stored position version no longer
	// matches upd.Position.Version.
	ApplyTrade(ctx context.Context, upd TradeUpdate) error
}
