package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors [StructuredConfig] with the keys accepted in config
// files. Durations are written as strings such as "72h" or "30s".
type fileConfig struct {
	App struct {
		HashKey      string `json:"hash_key" yaml:"hash_key"`
		TokenSignKey string `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer" yaml:"token_issuer"`
		SessionToken string `json:"session_token" yaml:"session_token"`
		DataDir      string `json:"data_dir" yaml:"data_dir"`
		LogPath      string `json:"log_path" yaml:"log_path"`
		LogLevel     string `json:"log_level" yaml:"log_level"`
	} `json:"app" yaml:"app"`

	Drafts struct {
		RetentionWindow   Duration `json:"retention_window" yaml:"retention_window"`
		MaxPhotos         int      `json:"max_photos" yaml:"max_photos"`
		PhotoMaxDimension int      `json:"photo_max_dimension" yaml:"photo_max_dimension"`
		PhotoQuality      int      `json:"photo_quality" yaml:"photo_quality"`
	} `json:"drafts" yaml:"drafts"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`
		Blobs struct {
			Dir string `json:"dir" yaml:"dir"`
		} `json:"blobs" yaml:"blobs"`
	} `json:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress     string   `json:"http_address" yaml:"http_address"`
		RequestTimeout  Duration `json:"request_timeout" yaml:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	} `json:"server" yaml:"server"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		SubmitRate     float64  `json:"submit_rate" yaml:"submit_rate"`
		SubmitBurst    int      `json:"submit_burst" yaml:"submit_burst"`
	} `json:"adapter" yaml:"adapter"`

	Workers struct {
		SyncInterval         Duration `json:"sync_interval" yaml:"sync_interval"`
		ReapInterval         Duration `json:"reap_interval" yaml:"reap_interval"`
		ConnectivityInterval Duration `json:"connectivity_interval" yaml:"connectivity_interval"`
	} `json:"workers" yaml:"workers"`
}

// parseFile reads a config file. Files ending in .yaml or .yml are decoded
// as YAML, everything else as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			HashKey:      fc.App.HashKey,
			TokenSignKey: fc.App.TokenSignKey,
			TokenIssuer:  fc.App.TokenIssuer,
			SessionToken: fc.App.SessionToken,
			DataDir:      fc.App.DataDir,
			LogPath:      fc.App.LogPath,
			LogLevel:     fc.App.LogLevel,
		},
		Drafts: Drafts{
			RetentionWindow:   time.Duration(fc.Drafts.RetentionWindow),
			MaxPhotos:         fc.Drafts.MaxPhotos,
			PhotoMaxDimension: fc.Drafts.PhotoMaxDimension,
			PhotoQuality:      fc.Drafts.PhotoQuality,
		},
		Storage: Storage{
			DB:    DB{DSN: fc.Storage.DB.DSN},
			Blobs: Blobs{Dir: fc.Storage.Blobs.Dir},
		},
		Server: Server{
			HTTPAddress:     fc.Server.HTTPAddress,
			RequestTimeout:  time.Duration(fc.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(fc.Server.ShutdownTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    fc.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
			SubmitRate:     fc.Adapter.SubmitRate,
			SubmitBurst:    fc.Adapter.SubmitBurst,
		},
		Workers: Workers{
			SyncInterval:         time.Duration(fc.Workers.SyncInterval),
			ReapInterval:         time.Duration(fc.Workers.ReapInterval),
			ConnectivityInterval: time.Duration(fc.Workers.ConnectivityInterval),
		},
	}
}

// Duration wraps time.Duration so config files may use strings like "1h" or
// "30s" as well as raw nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*d = Duration(time.Duration(n))
		return nil
	}

	tmp, err := time.ParseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
