package folio

import (
	"context"
	"testing"
	"time"

	"github.com/folioworks/folio/date"
)

// setupValuation builds a priced history around a fixed "today":
// a close of 100 three days ago, a close of 110 one day ago,
// a buy of 5 units three days ago, and a sell of 2 units one day ago.
func setupValuation(t *testing.T) (*testRig, *Valuation, date.Date) {
	t.Helper()
	rig := newTestRig(t)
	today := date.Of(testNow)

	if err := rig.market.AddPrice("TA", today.Add(-3), usd(100)); err != nil {
		t.Fatal(err)
	}
	if err := rig.market.AddPrice("TA", today.Add(-1), usd(110)); err != nil {
		t.Fatal(err)
	}

	rig.buy(t, 5, 100, testNow.Add(-3*24*time.Hour))
	rig.sell(t, 2, 110, testNow.Add(-24*time.Hour))

	return rig, NewValuation(rig.store, rig.market), today
}

func TestValueAt(t *testing.T) {
	rig, v, today := setupValuation(t)
	ctx := context.Background()

	tests := []struct {
		name string
		on   date.Date
		want string
	}{
		{name: "purchase day", on: today.Add(-3), want: "500"},
		{name: "day without price reuses prior close", on: today.Add(-2), want: "500"},
		{name: "after the sale", on: today.Add(-1), want: "330"},
		{name: "today", on: today, want: "330"},
		{name: "before any trade", on: today.Add(-4), want: "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.ValueAt(ctx, "", tc.on)
			if err != nil {
				t.Fatalf("ValueAt(%v) error = %v", tc.on, err)
			}
			if got.Decimal() != tc.want {
				t.Errorf("ValueAt(%v) = %s want %s", tc.on, got.Decimal(), tc.want)
			}
		})
	}

	// A trade submitted today must not change yesterday's valuation.
	rig.buy(t, 10, 105, testNow)
	got, err := v.ValueAt(ctx, "", today.Add(-1))
	if err != nil {
		t.Fatal(err)
	}
	if got.Decimal() != "330" {
		t.Errorf("ValueAt(yesterday) after a new trade = %s want 330", got.Decimal())
	}

	// Today it does count: 13 units at yesterday's close.
	got, err = v.ValueAt(ctx, "", today)
	if err != nil {
		t.Fatal(err)
	}
	if got.Decimal() != "1430" {
		t.Errorf("ValueAt(today) = %s want 1430", got.Decimal())
	}
}

func TestValueAtSkipsUnpricedAssets(t *testing.T) {
	rig, v, today := setupValuation(t)
	ctx := context.Background()

	// A position in an asset with no price data contributes zero, silently.
	if err := rig.market.Declare(Asset{Symbol: "NB", Name: "Never Priced", Currency: "USD"}); err != nil {
		t.Fatal(err)
	}
	pos, err := rig.proc.OpenPosition(ctx, "", "NB", "test-broker", "USD")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rig.proc.Submit(ctx, pos.ID, TxBuy, Q(7), usd(42), testNow.Add(-24*time.Hour)); err != nil {
		t.Fatal(err)
	}

	got, err := v.ValueAt(ctx, "", today)
	if err != nil {
		t.Fatal(err)
	}
	if got.Decimal() != "330" {
		t.Errorf("ValueAt(today) = %s want 330, the unpriced asset must not contribute", got.Decimal())
	}
}

func TestValueAtSkipsNonPositiveQuantities(t *testing.T) {
	rig, v, today := setupValuation(t)
	ctx := context.Background()

	// Sell everything and one more: the short position contributes zero.
	rig.sell(t, 4, 110, testNow)

	got, err := v.ValueAt(ctx, "", today)
	if err != nil {
		t.Fatal(err)
	}
	if got.Decimal() != "0" {
		t.Errorf("ValueAt(today) = %s want 0 for a short position", got.Decimal())
	}
}

func TestQuantityAt(t *testing.T) {
	rig, v, today := setupValuation(t)
	ctx := context.Background()

	tests := []struct {
		name string
		on   date.Date
		want string
	}{
		{name: "before any trade", on: today.Add(-4), want: "0"},
		{name: "after purchase", on: today.Add(-3), want: "5"},
		{name: "after sale", on: today.Add(-1), want: "3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.QuantityAt(ctx, rig.pos.ID, tc.on)
			if err != nil {
				t.Fatalf("QuantityAt(%v) error = %v", tc.on, err)
			}
			if got.String() != tc.want {
				t.Errorf("QuantityAt(%v) = %s want %s", tc.on, got, tc.want)
			}
		})
	}
}

func TestUnrealizedAt(t *testing.T) {
	rig, v, today := setupValuation(t)
	ctx := context.Background()

	// Average cost is 100, yesterday's close is 110, 3 units held.
	got, ok, err := v.UnrealizedAt(ctx, rig.pos.ID, today)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("UnrealizedAt() reported no price")
	}
	if got.Decimal() != "30" {
		t.Errorf("UnrealizedAt = %s want 30", got.Decimal())
	}

	_, ok, err = v.UnrealizedAt(ctx, rig.pos.ID, today.Add(-10))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("UnrealizedAt() found a price before the first close")
	}
}
