package folio

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Storage. It is safe for concurrent use and is
// the store of choice for tests and short lived runs.
type MemoryStore struct {
	mu sync.RWMutex

	portfolios map[string]Portfolio
	positions  map[string]*Position
	byHolding  map[string]string // (asset,broker) key to position id

	transactions []Transaction
	entries      map[string][]LedgerEntry // by transaction id
	seq          uint64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		portfolios: make(map[string]Portfolio),
		positions:  make(map[string]*Position),
		byHolding:  make(map[string]string),
		entries:    make(map[string][]LedgerEntry),
	}
}

var _ Storage = (*MemoryStore)(nil)

func holdingKey(asset, broker string) string { return asset + "/" + broker }

func (s *MemoryStore) GetPortfolio(_ context.Context, id string) (Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[id]
	if !ok {
		return Portfolio{}, fmt.Errorf("portfolio %q: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *MemoryStore) SavePortfolio(_ context.Context, p Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolios[p.ID] = p
	return nil
}

func (s *MemoryStore) GetPosition(_ context.Context, id string) (*Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[id]
	if !ok {
		return nil, fmt.Errorf("position %q: %w", id, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) FindPosition(_ context.Context, asset, broker string) (*Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHolding[holdingKey(asset, broker)]
	if !ok {
		return nil, fmt.Errorf("position %s at %s: %w", asset, broker, ErrNotFound)
	}
	cp := *s.positions[id]
	return &cp, nil
}

func (s *MemoryStore) SavePosition(_ context.Context, p *Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.positions[p.ID] = &cp
	s.byHolding[holdingKey(p.Asset, p.Broker)] = p.ID
	return nil
}

func (s *MemoryStore) PositionsByPortfolio(_ context.Context, portfolio string) ([]*Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Position
	for _, p := range s.positions {
		if p.Portfolio == portfolio {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) TransactionsByPosition(_ context.Context, position string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transaction
	for _, tx := range s.transactions {
		if tx.Position == position {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (s *MemoryStore) EntriesByTransaction(_ context.Context, transaction string) ([]LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.entries[transaction]
	out := make([]LedgerEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// ApplyTrade commits the whole update under one lock, so a concurrent reader
// never observes a transaction without its entries or position change.
func (s *MemoryStore) ApplyTrade(_ context.Context, upd TradeUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.positions[upd.Position.ID]
	if exists && current.Version != upd.Position.Version {
		return fmt.Errorf("position %q version %d, expected %d: %w",
			upd.Position.ID, current.Version, upd.Position.Version, ErrConflict)
	}
	if !exists && upd.Position.Version != 0 {
		return fmt.Errorf("position %q is new, expected version 0: %w", upd.Position.ID, ErrConflict)
	}

	s.seq++
	tx := upd.Transaction
	tx.Seq = s.seq

	cp := *upd.Position
	cp.Version++

	s.transactions = append(s.transactions, tx)
	s.entries[tx.ID] = append([]LedgerEntry(nil), upd.Entries[0], upd.Entries[1])
	s.positions[cp.ID] = &cp
	s.byHolding[holdingKey(cp.Asset, cp.Broker)] = cp.ID
	return nil
}
