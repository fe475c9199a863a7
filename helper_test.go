package folio

import (
	"context"
	"testing"
	"time"
)

// testNow is a fixed reference instant so tests do not depend on the clock.
var testNow = time.Date(2025, 7, 31, 15, 0, 0, 0, time.UTC)

func usd(v float64) Money { return M(v, "USD") }

// testRig wires a processor over an in-memory store with one declared asset
// and one open position.
type testRig struct {
	store  *MemoryStore
	market *MarketData
	proc   *Processor
	pos    *Position
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	store := NewMemoryStore()
	market := NewMarketData()
	if err := market.Declare(Asset{Symbol: "TA", Name: "Test Asset", Currency: "USD"}); err != nil {
		t.Fatalf("declare asset: %v", err)
	}
	proc := NewProcessor(store, market, NewSilentLogger())
	pos, err := proc.OpenPosition(context.Background(), "", "TA", "test-broker", "USD")
	if err != nil {
		t.Fatalf("open position: %v", err)
	}
	return &testRig{store: store, market: market, proc: proc, pos: pos}
}

func (r *testRig) buy(t *testing.T, qty, price float64, when time.Time) Transaction {
	t.Helper()
	tx, err := r.proc.Submit(context.Background(), r.pos.ID, TxBuy, Q(qty), usd(price), when)
	if err != nil {
		t.Fatalf("buy %v @ %v: %v", qty, price, err)
	}
	return tx
}

func (r *testRig) sell(t *testing.T, qty, price float64, when time.Time) Transaction {
	t.Helper()
	tx, err := r.proc.Submit(context.Background(), r.pos.ID, TxSell, Q(qty), usd(price), when)
	if err != nil {
		t.Fatalf("sell %v @ %v: %v", qty, price, err)
	}
	return tx
}

// position reloads the live position state from the store.
func (r *testRig) position(t *testing.T) *Position {
	t.Helper()
	pos, err := r.store.GetPosition(context.Background(), r.pos.ID)
	if err != nil {
		t.Fatalf("reload position: %v", err)
	}
	return pos
}
