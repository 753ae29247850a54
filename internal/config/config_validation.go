// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

func (d Drafts) validate() error {
	if d.RetentionWindow <= 0 || d.MaxPhotos <= 0 {
		return ErrInvalidDraftConfigs
	}
	if d.PhotoMaxDimension <= 0 || d.PhotoQuality < 1 || d.PhotoQuality > 100 {
		return ErrInvalidDraftConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	// drafts must survive restarts, so an in-memory database is refused
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.BlobsDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Adapter.SubmitRate <= 0 || cfg.Adapter.SubmitBurst <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.ReapInterval <= 0 || cfg.Workers.ConnectivityInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return cfg.Drafts.validate()
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.HashKey == "" || cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
