// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// agent and the intake server. Each binary projects the groups it needs into
// its own view ([ClientConfig], [ServerConfig]).
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
type StructuredConfig struct {
	App     App     `envPrefix:"APP_"`
	Drafts  Drafts  `envPrefix:"DRAFTS_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Server  Server  `envPrefix:"SERVER_"`
	Adapter Adapter `envPrefix:"ADAPTER_"`
	Workers Workers `envPrefix:"WORKERS_"`

	// ConfigFilePath is the optional path to a JSON or YAML config file.
	// Populated via the CONFIG environment variable or the -c/--config flag.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds process-level settings.
type App struct {
	// HashKey is the HMAC key for the HashSHA256 integrity header. The agent
	// and the intake server must share it.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// TokenSignKey verifies session tokens on the intake server.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the expected "iss" claim of session tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// SessionToken is the agent's bearer token issued by the session provider.
	// Env: APP_SESSION_TOKEN
	SessionToken string `env:"SESSION_TOKEN"`

	// DataDir is the agent's working directory. The draft database, photo
	// blobs and log file default to paths inside it.
	// Env: APP_DATA_DIR
	DataDir string `env:"DATA_DIR"`

	// LogPath overrides the agent log file location.
	// Env: APP_LOG_PATH
	LogPath string `env:"LOG_PATH"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Drafts holds the draft-store constants. They apply to the whole process and
// are never adjustable per draft.
type Drafts struct {
	// RetentionWindow is added to a draft's creation time to obtain ExpiresAt.
	// Env: DRAFTS_RETENTION_WINDOW
	RetentionWindow time.Duration `env:"RETENTION_WINDOW"`

	// MaxPhotos caps the number of photos per draft.
	// Env: DRAFTS_MAX_PHOTOS
	MaxPhotos int `env:"MAX_PHOTOS"`

	// PhotoMaxDimension is the longest edge, in pixels, of a stored photo.
	// Env: DRAFTS_PHOTO_MAX_DIMENSION
	PhotoMaxDimension int `env:"PHOTO_MAX_DIMENSION"`

	// PhotoQuality is the JPEG quality (1-100) used when recompressing photos.
	// Env: DRAFTS_PHOTO_QUALITY
	PhotoQuality int `env:"PHOTO_QUALITY"`
}

// Storage groups the persistence backends.
type Storage struct {
	DB    DB    `envPrefix:"DB_"`
	Blobs Blobs `envPrefix:"BLOBS_"`
}

// DB holds relational database connection settings. The agent uses a
// SQLite file, the intake server PostgreSQL.
type DB struct {
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Blobs holds photo blob storage settings.
type Blobs struct {
	// Env: STORAGE_BLOBS_DIR
	Dir string `env:"DIR"`
}

// Server holds the intake server's listener settings.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Adapter holds the agent's outbound transport settings.
type Adapter struct {
	// HTTPAddress is the base URL of the remote submission endpoint.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// SubmitRate is the sustained number of submissions per second.
	// Env: ADAPTER_SUBMIT_RATE
	SubmitRate float64 `env:"SUBMIT_RATE"`

	// SubmitBurst is the submission limiter's burst size.
	// Env: ADAPTER_SUBMIT_BURST
	SubmitBurst int `env:"SUBMIT_BURST"`
}

// Workers holds the agent's background job intervals.
type Workers struct {
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// Env: WORKERS_REAP_INTERVAL
	ReapInterval time.Duration `env:"REAP_INTERVAL"`

	// Env: WORKERS_CONNECTIVITY_INTERVAL
	ConnectivityInterval time.Duration `env:"CONNECTIVITY_INTERVAL"`
}

// Defaults returns the built-in configuration applied beneath every other
// source.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			DataDir:     ".fleetzen",
			LogLevel:    "info",
			TokenIssuer: "fleetzen",
		},
		Drafts: Drafts{
			RetentionWindow:   72 * time.Hour,
			MaxPhotos:         2,
			PhotoMaxDimension: 1600,
			PhotoQuality:      75,
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 30 * time.Second,
			SubmitRate:     2,
			SubmitBurst:    4,
		},
		Workers: Workers{
			SyncInterval:         5 * time.Minute,
			ReapInterval:         time.Hour,
			ConnectivityInterval: 15 * time.Second,
		},
	}
}
