package source

import (
	"context"
	_ "embed"

	"github.com/andresuchdata/inventory-manager/internal/domain"
)

//go:embed sample/inventory.json
var sampleDataset []byte

type builtinSource struct{}

// NewBuiltinSource serves the bundled sample dataset (four products).
func NewBuiltinSource() Source {
	return builtinSource{}
}

func (builtinSource) Kind() string { return KindBuiltin }

func (builtinSource) Load(ctx context.Context) (*domain.Dataset, error) {
	return Decode(sampleDataset, FormatJSON)
}

func (builtinSource) Close() error { return nil }
