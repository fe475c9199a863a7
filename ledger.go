package folio

import (
	"fmt"

	"github.com/google/uuid"
)

// EntryType is a typed string for the side of a ledger entry.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// The two accounts of the simplified chart. Buys move value from Cash to
// Asset, sells move it back.
const (
	AccountCash  = "Cash"
	AccountAsset = "Asset"
)

// LedgerEntry is one side of the double entry recorded for a transaction.
// Entries are immutable once stored.
type LedgerEntry struct {
	ID          string    `json:"id"`
	Transaction string    `json:"transaction"`
	Type        EntryType `json:"type"`
	Account     string    `json:"account"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
}

// MarshalJSON writes the entry with a stable field order.
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("transaction", e.Transaction)
	w.Append("type", e.Type)
	w.Append("account", e.Account)
	w.Append("amount", e.Amount)
	w.Optional("description", e.Description)
	return w.MarshalJSON()
}

// Record derives the balanced pair of ledger entries for a trade.
//
// A BUY debits Cash and credits Asset, a SELL debits Asset and credits Cash.
// Both entries carry the same amount, quantity times unit price truncated at
// 8 fractional digits, so the pair always balances. The symbol only feeds the
// human readable descriptions.
func Record(tx Transaction, symbol string) (debit, credit LedgerEntry, err error) {
	if err := tx.Validate(); err != nil {
		return debit, credit, err
	}
	amount := tx.Amount()

	var debitAccount, creditAccount, verb string
	switch tx.Type {
	case TxBuy:
		debitAccount, creditAccount, verb = AccountCash, AccountAsset, "Buy"
	case TxSell:
		debitAccount, creditAccount, verb = AccountAsset, AccountCash, "Sell"
	default:
		return debit, credit, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, tx.Type)
	}
	desc := fmt.Sprintf("%s %s %s", verb, tx.Quantity, symbol)

	debit = LedgerEntry{
		ID:          uuid.NewString(),
		Transaction: tx.ID,
		Type:        Debit,
		Account:     debitAccount,
		Amount:      amount,
		Description: desc,
	}
	credit = LedgerEntry{
		ID:          uuid.NewString(),
		Transaction: tx.ID,
		Type:        Credit,
		Account:     creditAccount,
		Amount:      amount,
		Description: desc,
	}
	return debit, credit, nil
}

// Balanced reports whether a pair of entries forms a valid double entry for
// the same transaction: one debit, one credit, equal amounts.
func Balanced(a, b LedgerEntry) bool {
	if a.Transaction != b.Transaction {
		return false
	}
	if a.Type == b.Type {
		return false
	}
	return a.Amount.Equal(b.Amount)
}
