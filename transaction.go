package folio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/folioworks/folio/date"
)

// TxType is a typed string for identifying the side of a trade.
type TxType string

const (
	TxBuy  TxType = "BUY"
	TxSell TxType = "SELL"
)

// Valid reports whether the type is one of the known trade sides.
func (t TxType) Valid() bool { return t == TxBuy || t == TxSell }

// Transaction is an immutable record of a single trade against a position.
// Once stored it is never updated or deleted.
type Transaction struct {
	ID       string    `json:"id"`
	Position string    `json:"position"`
	Type     TxType    `json:"type"`
	Quantity Quantity  `json:"quantity"`
	Price    Money     `json:"price"` // unit price
	When     time.Time `json:"timestamp"`

	// CostBasis is the position's average cost at the time a SELL was
	// processed. It is zero for a BUY. Storing it makes realized gains
	// immune to later average-cost changes.
	CostBasis Money `json:"costBasis,omitempty"`

	// Seq is assigned by the store and breaks ties between transactions
	// sharing the same timestamp.
	Seq uint64 `json:"seq"`
}

// NewBuy creates a buy transaction for a position.
func NewBuy(position string, quantity Quantity, price Money, when time.Time) Transaction {
	return Transaction{ID: uuid.NewString(), Position: position, Type: TxBuy, Quantity: quantity, Price: price, When: when}
}

// NewSell creates a sell transaction for a position.
func NewSell(position string, quantity Quantity, price Money, when time.Time) Transaction {
	return Transaction{ID: uuid.NewString(), Position: position, Type: TxSell, Quantity: quantity, Price: price, When: when}
}

// Day returns the date part of the transaction instant.
func (t Transaction) Day() date.Date { return date.Of(t.When) }

// Amount returns the gross value of the trade, quantity times unit price,
// truncated at 8 fractional digits.
func (t Transaction) Amount() Money { return t.Price.Mul(t.Quantity).Quantize() }

// Validate checks the transaction fields.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, t.Type)
	}
	if t.Position == "" {
		return fmt.Errorf("%w: transaction needs a position", ErrInvalidInput)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: %s quantity must be positive, got %s", ErrInvalidInput, t.Type, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%w: %s price must be positive, got %s", ErrInvalidInput, t.Type, t.Price.Decimal())
	}
	if t.When.IsZero() {
		return fmt.Errorf("%w: transaction needs a timestamp", ErrInvalidInput)
	}
	return nil
}

// Before orders transactions chronologically, with the store sequence as the
// stable tie breaker for equal timestamps.
func (t Transaction) Before(o Transaction) bool {
	if t.When.Equal(o.When) {
		return t.Seq < o.Seq
	}
	return t.When.Before(o.When)
}

// MarshalJSON writes the transaction with a stable field order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("position", t.Position)
	w.Append("type", t.Type)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	w.Append("timestamp", t.When.UTC().Format(time.RFC3339Nano))
	if t.Type == TxSell {
		w.Append("costBasis", t.CostBasis)
	}
	w.Append("seq", t.Seq)
	return w.MarshalJSON()
}

// UnmarshalJSON reads the format produced by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID        string          `json:"id"`
		Position  string          `json:"position"`
		Type      TxType          `json:"type"`
		Quantity  Quantity        `json:"quantity"`
		Price     Money           `json:"price"`
		Timestamp string          `json:"timestamp"`
		CostBasis json.RawMessage `json:"costBasis"`
		Seq       uint64          `json:"seq"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	when, err := time.Parse(time.RFC3339Nano, temp.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid transaction timestamp %q: %w", temp.Timestamp, err)
	}
	t.ID, t.Position, t.Type = temp.ID, temp.Position, temp.Type
	t.Quantity, t.Price, t.When, t.Seq = temp.Quantity, temp.Price, when, temp.Seq
	if len(temp.CostBasis) > 0 {
		if err := json.Unmarshal(temp.CostBasis, &t.CostBasis); err != nil {
			return err
		}
	}
	return nil
}

// zeroMoney returns a zero amount in the given currency.
func zeroMoney(currency string) Money { return M(decimal.Zero, currency) }
