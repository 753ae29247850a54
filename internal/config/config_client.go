package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// ClientApp holds agent process settings.
type ClientApp struct {
	// HashKey signs submission bodies. Empty disables the integrity header.
	HashKey string
	// SessionToken is the bearer token of the signed-in agent.
	SessionToken string
	LogPath      string
	LogLevel     string
}

// ClientAdapter holds the agent's outbound transport settings.
type ClientAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	SubmitRate     float64
	SubmitBurst    int
}

// ClientStorage holds the local persistence locations.
type ClientStorage struct {
	DB       ClientDB
	BlobsDir string
}

// ClientDB holds the SQLite settings of the draft store.
type ClientDB struct {
	DSN string
}

// ClientWorkers holds background job intervals.
type ClientWorkers struct {
	SyncInterval         time.Duration
	ReapInterval         time.Duration
	ConnectivityInterval time.Duration
}

// ClientConfig is the agent's configuration view.
type ClientConfig struct {
	App     ClientApp
	Drafts  Drafts
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
}

// GetClientConfig merges all sources with the given parsed flag values and
// projects the result into a validated [ClientConfig]. Storage and log paths
// left empty are placed inside App.DataDir.
func GetClientConfig(flags *StructuredConfig) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	dataDir := cfg.App.DataDir

	dsn := cfg.Storage.DB.DSN
	if dsn == "" {
		dsn = filepath.Join(dataDir, "drafts.db")
	}
	blobsDir := cfg.Storage.Blobs.Dir
	if blobsDir == "" {
		blobsDir = filepath.Join(dataDir, "photos")
	}
	logPath := cfg.App.LogPath
	if logPath == "" {
		logPath = filepath.Join(dataDir, "agent.log")
	}

	return &ClientConfig{
		App: ClientApp{
			HashKey:      cfg.App.HashKey,
			SessionToken: cfg.App.SessionToken,
			LogPath:      logPath,
			LogLevel:     cfg.App.LogLevel,
		},
		Drafts: cfg.Drafts,
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			SubmitRate:     cfg.Adapter.SubmitRate,
			SubmitBurst:    cfg.Adapter.SubmitBurst,
		},
		Storage: ClientStorage{
			DB:       ClientDB{DSN: dsn},
			BlobsDir: blobsDir,
		},
		Workers: ClientWorkers{
			SyncInterval:         cfg.Workers.SyncInterval,
			ReapInterval:         cfg.Workers.ReapInterval,
			ConnectivityInterval: cfg.Workers.ConnectivityInterval,
		},
	}
}
