package repository

import (
	"fmt"
	"sync/atomic"

	"github.com/andresuchdata/inventory-manager/internal/domain"
)

// RecordStore gives read access to the current-stock and optimal-policy
// mappings. The id set of the current-stock mapping is authoritative for
// "all products".
type RecordStore interface {
	GetStock(id string) (domain.StockRecord, error)
	GetPolicy(id string) (domain.PolicyRecord, error)
	ProductIDs() []string
	ListStock() []domain.StockRecord
	ListPolicies() []domain.PolicyRecord
}

// Snapshotter is implemented by stores whose contents can change; Snapshot
// returns a view that stays consistent for a full evaluation or planning pass.
type Snapshotter interface {
	Snapshot() RecordStore
}

// snapshot is an immutable, insertion-ordered copy of a dataset.
type snapshot struct {
	stockOrder  []string
	stock       map[string]domain.StockRecord
	policyOrder []string
	policies    map[string]domain.PolicyRecord
}

func newSnapshot(ds *domain.Dataset) *snapshot {
	s := &snapshot{
		stock:    make(map[string]domain.StockRecord),
		policies: make(map[string]domain.PolicyRecord),
	}
	if ds == nil {
		return s
	}

	s.stockOrder = make([]string, 0, len(ds.Current))
	for _, rec := range ds.Current {
		if _, ok := s.stock[rec.ID]; !ok {
			s.stockOrder = append(s.stockOrder, rec.ID)
		}
		s.stock[rec.ID] = rec
	}

	s.policyOrder = make([]string, 0, len(ds.Optimal))
	for _, rec := range ds.Optimal {
		if _, ok := s.policies[rec.ID]; !ok {
			s.policyOrder = append(s.policyOrder, rec.ID)
		}
		s.policies[rec.ID] = rec
	}

	return s
}

func (s *snapshot) GetStock(id string) (domain.StockRecord, error) {
	rec, ok := s.stock[id]
	if !ok {
		return domain.StockRecord{}, fmt.Errorf("current stock for %q: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

func (s *snapshot) GetPolicy(id string) (domain.PolicyRecord, error) {
	rec, ok := s.policies[id]
	if !ok {
		return domain.PolicyRecord{}, fmt.Errorf("optimal policy for %q: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

func (s *snapshot) ProductIDs() []string {
	return append([]string(nil), s.stockOrder...)
}

func (s *snapshot) ListStock() []domain.StockRecord {
	out := make([]domain.StockRecord, 0, len(s.stockOrder))
	for _, id := range s.stockOrder {
		out = append(out, s.stock[id])
	}
	return out
}

func (s *snapshot) ListPolicies() []domain.PolicyRecord {
	out := make([]domain.PolicyRecord, 0, len(s.policyOrder))
	for _, id := range s.policyOrder {
		out = append(out, s.policies[id])
	}
	return out
}

// MemoryStore is the process-lifetime record store. Contents are replaced
// wholesale by swapping an immutable snapshot, so readers never observe a
// half-applied update.
type MemoryStore struct {
	current atomic.Pointer[snapshot]
}

// NewMemoryStore creates a store seeded with ds. A nil dataset yields an empty store.
func NewMemoryStore(ds *domain.Dataset) *MemoryStore {
	m := &MemoryStore{}
	m.current.Store(newSnapshot(ds))
	return m
}

// Replace installs ds as the new contents.
func (m *MemoryStore) Replace(ds *domain.Dataset) {
	m.current.Store(newSnapshot(ds))
}

func (m *MemoryStore) Snapshot() RecordStore {
	return m.current.Load()
}

// Len returns the number of products in the current-stock mapping.
func (m *MemoryStore) Len() int {
	return len(m.current.Load().stockOrder)
}

func (m *MemoryStore) GetStock(id string) (domain.StockRecord, error) {
	return m.current.Load().GetStock(id)
}

func (m *MemoryStore) GetPolicy(id string) (domain.PolicyRecord, error) {
	return m.current.Load().GetPolicy(id)
}

func (m *MemoryStore) ProductIDs() []string {
	return m.current.Load().ProductIDs()
}

func (m *MemoryStore) ListStock() []domain.StockRecord {
	return m.current.Load().ListStock()
}

func (m *MemoryStore) ListPolicies() []domain.PolicyRecord {
	return m.current.Load().ListPolicies()
}

var (
	_ RecordStore = (*MemoryStore)(nil)
	_ Snapshotter = (*MemoryStore)(nil)
)
