package folio

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// symbolRegex matches a valid asset symbol, a short uppercase ticker like "AAPL" or "BRK.B".
var symbolRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9._-]{0,11}$`)

// currencyCodeRegex matches an ISO-4217 currency code.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Asset is a tradable instrument known to the market data registry.
type Asset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"` // currency its prices are quoted in
}

// Validate checks the asset definition.
func (a Asset) Validate() error {
	if !symbolRegex.MatchString(a.Symbol) {
		return fmt.Errorf("%w: invalid asset symbol %q", ErrInvalidInput, a.Symbol)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: asset %q needs a name", ErrInvalidInput, a.Symbol)
	}
	if a.Currency != "" && !currencyCodeRegex.MatchString(a.Currency) {
		return fmt.Errorf("%w: invalid currency code %q for asset %q", ErrInvalidInput, a.Currency, a.Symbol)
	}
	return nil
}

// Broker identifies the account holding a position. The same asset held at two
// brokers is two distinct positions.
type Broker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewBroker returns a broker with a fresh identity.
func NewBroker(name string) Broker {
	return Broker{ID: uuid.NewString(), Name: name}
}

// Portfolio groups positions for valuation. A position may be held outside any
// portfolio.
type Portfolio struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewPortfolio returns a portfolio with a fresh identity.
func NewPortfolio(name string) Portfolio {
	return Portfolio{ID: uuid.NewString(), Name: name}
}
