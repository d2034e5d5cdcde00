package vaultserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds vaultd settings. Zero values are filled by LoadConfig.
type Config struct {
	Addr      string
	PublicURL string
	// Store is memory, leveldb or dynamodb.
	Store     string
	DataDir   string
	Table     string
	Region    string
	Endpoint  string
	PlacesKey string
	LogLevel  string
	LogJSON   bool
}

// LoadConfig reads configuration from the environment.
func LoadConfig() Config {
	addr := get("VAULTD_ADDR", ":8000")
	return Config{
		Addr:      addr,
		PublicURL: get("VAULTD_PUBLIC_URL", "http://localhost"+portOf(addr)),
		Store:     strings.ToLower(get("VAULTD_STORE", "memory")),
		DataDir:   get("VAULTD_DATA_DIR", "vaultd-data"),
		Table:     get("VAULTD_DDB_TABLE", "aura-vault"),
		Region:    get("AWS_REGION", "us-east-1"),
		Endpoint:  os.Getenv("AWS_ENDPOINT_URL"),
		PlacesKey: os.Getenv("GOOGLE_PLACES_API_KEY"),
		LogLevel:  get("VAULTD_LOG_LEVEL", "info"),
		LogJSON:   get("VAULTD_LOG_FORMAT", "text") == "json",
	}
}

// OpenStore builds the Store selected by cfg.Store.
func OpenStore(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(), nil
	case "leveldb":
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, err
		}
		return OpenLevelStore(filepath.Join(cfg.DataDir, "sessions.ldb"))
	case "dynamodb":
		db, err := NewDynamoClient(ctx, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		return &DynamoStore{DB: db, Table: cfg.Table}, nil
	default:
		return nil, fmt.Errorf("unknown store %q (want memory, leveldb or dynamodb)", cfg.Store)
	}
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ""
}
