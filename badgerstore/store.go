// Package badgerstore implements folio.Storage on an embedded BadgerDB,
// through badgerhold. Trade updates run inside one Badger transaction, so the
// four effects of a trade commit or roll back together.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/timshannon/badgerhold/v4"

	"github.com/folioworks/folio"
)

// seqKey is the key of the singleton counter backing transaction sequence
// numbers.
const seqKey = "trade-seq"

type counter struct {
	Value uint64
}

// Store is a durable folio.Storage backed by BadgerDB.
type Store struct {
	store *badgerhold.Store
	log   zerolog.Logger
}

var _ folio.Storage = (*Store)(nil)

// Open opens or creates the database at dir.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	opts := badgerhold.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	opts.Logger = nil
	// JSON rather than gob: the domain money and quantity types marshal
	// through their JSON codecs.
	opts.Encoder = json.Marshal
	opts.Decoder = json.Unmarshal

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cannot open badger store at %q: %w", dir, err)
	}
	log.Debug().Str("dir", dir).Msg("badger store opened")
	return &Store{store: store, log: log}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.store.Close()
}

func (s *Store) GetPortfolio(_ context.Context, id string) (folio.Portfolio, error) {
	var p folio.Portfolio
	err := s.store.Get(id, &p)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return folio.Portfolio{}, fmt.Errorf("portfolio %q: %w", id, folio.ErrNotFound)
	}
	return p, err
}

func (s *Store) SavePortfolio(_ context.Context, p folio.Portfolio) error {
	return s.store.Upsert(p.ID, &p)
}

func (s *Store) GetPosition(_ context.Context, id string) (*folio.Position, error) {
	var p folio.Position
	err := s.store.Get(id, &p)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, fmt.Errorf("position %q: %w", id, folio.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) FindPosition(_ context.Context, asset, broker string) (*folio.Position, error) {
	var list []folio.Position
	err := s.store.Find(&list, badgerhold.Where("Asset").Eq(asset).And("Broker").Eq(broker))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("position %s at %s: %w", asset, broker, folio.ErrNotFound)
	}
	return &list[0], nil
}

func (s *Store) SavePosition(_ context.Context, p *folio.Position) error {
	return s.store.Upsert(p.ID, p)
}

func (s *Store) PositionsByPortfolio(_ context.Context, portfolio string) ([]*folio.Position, error) {
	var list []folio.Position
	err := s.store.Find(&list, badgerhold.Where("Portfolio").Eq(portfolio))
	if err != nil {
		return nil, err
	}
	out := make([]*folio.Position, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) TransactionsByPosition(_ context.Context, position string) ([]folio.Transaction, error) {
	var list []folio.Transaction
	err := s.store.Find(&list, badgerhold.Where("Position").Eq(position))
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Before(list[j]) })
	return list, nil
}

func (s *Store) EntriesByTransaction(_ context.Context, transaction string) ([]folio.LedgerEntry, error) {
	var list []folio.LedgerEntry
	err := s.store.Find(&list, badgerhold.Where("Transaction").Eq(transaction))
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Type < list[j].Type })
	return list, nil
}

// ApplyTrade commits the transaction, both entries and the position update in
// a single Badger transaction. A stale position version, or a write conflict
// detected by Badger itself, surfaces as folio.ErrConflict.
func (s *Store) ApplyTrade(_ context.Context, upd folio.TradeUpdate) error {
	err := s.store.Badger().Update(func(txn *badger.Txn) error {
		var current folio.Position
		err := s.store.TxGet(txn, upd.Position.ID, &current)
		switch {
		case errors.Is(err, badgerhold.ErrNotFound):
			if upd.Position.Version != 0 {
				return fmt.Errorf("position %q is new, expected version 0: %w", upd.Position.ID, folio.ErrConflict)
			}
		case err != nil:
			return err
		case current.Version != upd.Position.Version:
			return fmt.Errorf("position %q version %d, expected %d: %w",
				upd.Position.ID, current.Version, upd.Position.Version, folio.ErrConflict)
		}

		var c counter
		if err := s.store.TxGet(txn, seqKey, &c); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}
		c.Value++
		if err := s.store.TxUpsert(txn, seqKey, &c); err != nil {
			return err
		}

		tx := upd.Transaction
		tx.Seq = c.Value
		if err := s.store.TxInsert(txn, tx.ID, &tx); err != nil {
			return err
		}
		for _, e := range upd.Entries {
			if err := s.store.TxInsert(txn, e.ID, &e); err != nil {
				return err
			}
		}

		pos := *upd.Position
		pos.Version++
		return s.store.TxUpsert(txn, pos.ID, &pos)
	})
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("badger write conflict on position %q: %w", upd.Position.ID, folio.ErrConflict)
	}
	if err == nil {
		s.log.Debug().
			Str("position", upd.Position.ID).
			Str("transaction", upd.Transaction.ID).
			Msg("trade applied")
	}
	return err
}
