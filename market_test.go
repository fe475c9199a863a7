package folio

import (
	"errors"
	"testing"

	"github.com/folioworks/folio/date"
)

func TestDeclare(t *testing.T) {
	m := NewMarketData()

	if err := m.Declare(Asset{Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD"}); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if !m.Has("AAPL") {
		t.Error("Has(AAPL) = false after Declare")
	}

	// Re-declaring updates the name, it does not duplicate.
	if err := m.Declare(Asset{Symbol: "AAPL", Name: "Apple", Currency: "USD"}); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	a, _ := m.Get("AAPL")
	if a.Name != "Apple" {
		t.Errorf("Name = %q want %q", a.Name, "Apple")
	}

	tests := []struct {
		name  string
		asset Asset
	}{
		{name: "lowercase symbol", asset: Asset{Symbol: "aapl", Name: "Apple"}},
		{name: "empty symbol", asset: Asset{Symbol: "", Name: "Apple"}},
		{name: "missing name", asset: Asset{Symbol: "AAPL", Name: ""}},
		{name: "bad currency", asset: Asset{Symbol: "AAPL", Name: "Apple", Currency: "dollars"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := m.Declare(tc.asset); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Declare() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAddPrice(t *testing.T) {
	m := NewMarketData()
	if err := m.Declare(Asset{Symbol: "TA", Name: "Test Asset", Currency: "USD"}); err != nil {
		t.Fatal(err)
	}
	day := date.New(2025, 7, 28)

	if err := m.AddPrice("TA", day, usd(100)); err != nil {
		t.Fatalf("AddPrice() error = %v", err)
	}

	t.Run("duplicate day is rejected", func(t *testing.T) {
		if err := m.AddPrice("TA", day, usd(101)); !errors.Is(err, ErrDuplicatePrice) {
			t.Errorf("AddPrice() error = %v, want ErrDuplicatePrice", err)
		}
		// The original price must be untouched.
		if p, _ := m.PriceOn("TA", day); p.Decimal() != "100" {
			t.Errorf("PriceOn = %s want 100", p.Decimal())
		}
	})

	t.Run("undeclared asset", func(t *testing.T) {
		if err := m.AddPrice("NOPE", day, usd(1)); !errors.Is(err, ErrNotFound) {
			t.Errorf("AddPrice() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("non positive price", func(t *testing.T) {
		if err := m.AddPrice("TA", day.Add(1), usd(0)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AddPrice() error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestLatestOnOrBefore(t *testing.T) {
	m := NewMarketData()
	if err := m.Declare(Asset{Symbol: "TA", Name: "Test Asset", Currency: "USD"}); err != nil {
		t.Fatal(err)
	}
	d1, d2 := date.New(2025, 7, 28), date.New(2025, 7, 30)
	m.AddPrice("TA", d1, usd(100))
	m.AddPrice("TA", d2, usd(110))

	tests := []struct {
		name  string
		on    date.Date
		want  string
		found bool
	}{
		{name: "exact day", on: d1, want: "100", found: true},
		{name: "gap day falls back", on: d1.Add(1), want: "100", found: true},
		{name: "after last close", on: d2.Add(5), want: "110", found: true},
		{name: "before first close", on: d1.Add(-1), found: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, found := m.LatestOnOrBefore("TA", tc.on)
			if found != tc.found {
				t.Fatalf("found = %v want %v", found, tc.found)
			}
			if found && got.Decimal() != tc.want {
				t.Errorf("LatestOnOrBefore = %s want %s", got.Decimal(), tc.want)
			}
		})
	}

	if _, found := m.LatestOnOrBefore("NOPE", d2); found {
		t.Error("LatestOnOrBefore found a price for an undeclared asset")
	}
}
