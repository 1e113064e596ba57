package source

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/inventory-manager/internal/domain"
)

type fileSource struct {
	path string
}

// NewFileSource reads a JSON or YAML dataset from a local path.
func NewFileSource(path string) (Source, error) {
	if path == "" {
		return nil, fmt.Errorf("file source requires SOURCE_PATH")
	}
	return &fileSource{path: path}, nil
}

func (s *fileSource) Kind() string { return KindFile }

func (s *fileSource) Load(ctx context.Context) (*domain.Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file %s: %w", s.path, err)
	}
	return Decode(data, FormatFromName(s.path))
}

func (s *fileSource) Close() error { return nil }
