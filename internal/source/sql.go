package source

import (
	"context"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/repository/sqlstore"
)

type sqlSource struct {
	kind string
	db   *sqlstore.DB
	repo *sqlstore.InventoryRepository
}

// NewSQLSource reads the inventory tables through db. The source owns db.
func NewSQLSource(kind string, db *sqlstore.DB) Source {
	return &sqlSource{
		kind: kind,
		db:   db,
		repo: sqlstore.NewInventoryRepository(db),
	}
}

func (s *sqlSource) Kind() string { return s.kind }

func (s *sqlSource) Load(ctx context.Context) (*domain.Dataset, error) {
	return s.repo.LoadDataset(ctx)
}

func (s *sqlSource) Close() error {
	return s.db.Close()
}
