// Package source loads the inventory dataset from the configured backend.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-manager/internal/cache"
	"github.com/andresuchdata/inventory-manager/internal/config"
	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/drive"
	"github.com/andresuchdata/inventory-manager/internal/repository/sqlstore"
	"github.com/andresuchdata/inventory-manager/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	KindBuiltin  = "builtin"
	KindFile     = "file"
	KindHTTP     = "http"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindRedis    = "redis"
	KindS3       = "s3"
	KindDrive    = "drive"
)

// Source produces a complete dataset. Implementations do not validate;
// the Loader does.
type Source interface {
	Kind() string
	Load(ctx context.Context) (*domain.Dataset, error)
	Close() error
}

// Format is the serialization of a dataset document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromName picks the format from a file name or URL path; JSON is the default.
func FormatFromName(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a dataset document.
func Decode(data []byte, format Format) (*domain.Dataset, error) {
	var ds domain.Dataset
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", domain.ErrInvalidDataset, err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ds); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", domain.ErrInvalidDataset, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidDataset, format)
	}
	return &ds, nil
}

// Encode serializes a dataset document.
func Encode(ds *domain.Dataset, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(ds)
	}
	return json.MarshalIndent(ds, "", "  ")
}

// New builds the source selected by cfg.Source.Kind.
func New(ctx context.Context, cfg *config.Config) (Source, error) {
	sc := cfg.Source
	timeout := time.Duration(sc.TimeoutSeconds) * time.Second

	switch sc.Kind {
	case "", KindBuiltin:
		return NewBuiltinSource(), nil

	case KindFile:
		return NewFileSource(sc.Path)

	case KindHTTP:
		return NewHTTPSource(sc.URL, sc.Token, timeout)

	case KindPostgres:
		var (
			db  *sqlstore.DB
			err error
		)
		if sc.SQLDSN != "" {
			db, err = sqlstore.Open(sc.SQLDriver, sc.SQLDSN)
		} else {
			db, err = sqlstore.NewDB(&cfg.Database)
		}
		if err != nil {
			return nil, err
		}
		return NewSQLSource(KindPostgres, db), nil

	case KindSQLite:
		dsn := sc.SQLDSN
		if dsn == "" {
			dsn = sc.Path
		}
		if dsn == "" {
			return nil, fmt.Errorf("sqlite source requires SOURCE_SQL_DSN or SOURCE_PATH")
		}
		db, err := sqlstore.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		return NewSQLSource(KindSQLite, db), nil

	case KindRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
		return NewRedisSource(cache.NewRedisSnapshotCache(client, cfg.Cache.SnapshotKey, 0)), nil

	case KindS3:
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		return NewObjectSource(client, sc.ObjectKey)

	case KindDrive:
		svc, err := drive.NewService(ctx, sc.DriveCredentialsJSON)
		if err != nil {
			return nil, err
		}
		return NewDriveSource(svc, sc.DriveFileID)

	default:
		return nil, fmt.Errorf("unknown source kind %q", sc.Kind)
	}
}
