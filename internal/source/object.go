package source

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/storage"
	"github.com/andresuchdata/inventory-manager/pkg/logger"
)

type objectSource struct {
	store storage.ObjectStorage
	key   string
}

// NewObjectSource reads a JSON or YAML dataset object from S3-compatible storage.
// A key ending in "/" is a prefix: each load picks the most recently modified
// dataset object under it.
func NewObjectSource(store storage.ObjectStorage, key string) (Source, error) {
	if key == "" {
		return nil, fmt.Errorf("s3 source requires SOURCE_OBJECT_KEY")
	}
	return &objectSource{store: store, key: key}, nil
}

func (s *objectSource) Kind() string { return KindS3 }

func (s *objectSource) Load(ctx context.Context) (*domain.Dataset, error) {
	key := s.key
	if strings.HasSuffix(key, "/") {
		latest, err := s.latest(ctx)
		if err != nil {
			return nil, err
		}
		key = latest
	}

	data, err := s.store.ReadObject(ctx, key)
	if err != nil {
		return nil, err
	}
	return Decode(data, FormatFromName(key))
}

func (s *objectSource) latest(ctx context.Context) (string, error) {
	objects, err := s.store.ListObjects(ctx, s.key)
	if err != nil {
		return "", err
	}

	var newest *storage.ObjectInfo
	for i := range objects {
		obj := &objects[i]
		switch strings.ToLower(path.Ext(obj.Key)) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		if newest == nil || obj.LastModified.After(newest.LastModified) {
			newest = obj
		}
	}
	if newest == nil {
		return "", fmt.Errorf("no dataset object under s3 prefix %q", s.key)
	}

	logger.Log.Debug().Str("prefix", s.key).Str("key", newest.Key).Msg("source: resolved latest dataset object")
	return newest.Key, nil
}

func (s *objectSource) Close() error { return nil }
