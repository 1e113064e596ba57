// internal/config/config.go
package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	MCP      MCPConfig
	Source   SourceConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Enabled        bool
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type MCPConfig struct {
	Enabled bool
	Name    string
	Version string
}

// SourceConfig selects where the dataset is loaded from at startup.
// Kind is one of builtin, file, http, postgres, sqlite, redis, s3, drive.
type SourceConfig struct {
	Kind           string
	Path           string
	URL            string
	Token          string
	TimeoutSeconds int
	RefreshCron    string

	SQLDriver string
	SQLDSN    string

	ObjectKey string

	DriveCredentialsJSON string
	DriveFileID          string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	SnapshotKey    string
	SnapshotTTLSec int
}

// StorageConfig describes an S3-compatible object store.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type LogConfig struct {
	Level string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults(viper.GetViper())

		// Read from environment variables
		viper.AutomaticEnv()

		instance = fromViper(viper.GetViper())
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ENABLED", false)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "release")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("MCP_ENABLED", true)
	v.SetDefault("MCP_SERVER_NAME", "inventory-manager")
	v.SetDefault("MCP_SERVER_VERSION", "1.0.0")
	v.SetDefault("SOURCE_KIND", "builtin")
	v.SetDefault("SOURCE_PATH", "")
	v.SetDefault("SOURCE_URL", "")
	v.SetDefault("SOURCE_TOKEN", "")
	v.SetDefault("SOURCE_TIMEOUT_SECONDS", 15)
	v.SetDefault("SOURCE_REFRESH_CRON", "")
	v.SetDefault("SOURCE_SQL_DRIVER", "postgres")
	v.SetDefault("SOURCE_SQL_DSN", "")
	v.SetDefault("SOURCE_OBJECT_KEY", "inventory/dataset.json")
	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("SOURCE_DRIVE_FILE_ID", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "inventory")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_SNAPSHOT_KEY", "inventory:dataset")
	v.SetDefault("CACHE_SNAPSHOT_TTL_SECONDS", 0)
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("LOG_LEVEL", "info")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Enabled:        v.GetBool("SERVER_ENABLED"),
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		MCP: MCPConfig{
			Enabled: v.GetBool("MCP_ENABLED"),
			Name:    v.GetString("MCP_SERVER_NAME"),
			Version: v.GetString("MCP_SERVER_VERSION"),
		},
		Source: SourceConfig{
			Kind:                 strings.ToLower(strings.TrimSpace(v.GetString("SOURCE_KIND"))),
			Path:                 v.GetString("SOURCE_PATH"),
			URL:                  v.GetString("SOURCE_URL"),
			Token:                v.GetString("SOURCE_TOKEN"),
			TimeoutSeconds:       v.GetInt("SOURCE_TIMEOUT_SECONDS"),
			RefreshCron:          strings.TrimSpace(v.GetString("SOURCE_REFRESH_CRON")),
			SQLDriver:            v.GetString("SOURCE_SQL_DRIVER"),
			SQLDSN:               v.GetString("SOURCE_SQL_DSN"),
			ObjectKey:            v.GetString("SOURCE_OBJECT_KEY"),
			DriveCredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			DriveFileID:          v.GetString("SOURCE_DRIVE_FILE_ID"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:        v.GetBool("CACHE_ENABLED"),
			RedisURL:       v.GetString("REDIS_URL"),
			RedisHost:      v.GetString("REDIS_HOST"),
			RedisPort:      v.GetString("REDIS_PORT"),
			RedisPassword:  v.GetString("REDIS_PASSWORD"),
			RedisDB:        v.GetInt("REDIS_DB"),
			SnapshotKey:    v.GetString("CACHE_SNAPSHOT_KEY"),
			SnapshotTTLSec: v.GetInt("CACHE_SNAPSHOT_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}
