// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/fleetzen/fleetzen/internal/service"
)

// Client is the agent runtime shared by the CLI commands and the daemon.
type Client interface {
	// Services exposes the draft store, sync service and helpers.
	Services() *service.ClientServices

	// WithAgent returns ctx carrying the session's agent identity, if any.
	WithAgent(ctx context.Context) context.Context

	// Run starts the background workers and blocks until ctx is cancelled.
	Run(ctx context.Context) error

	// Close releases the local store. It is safe to call more than once.
	Close() error
}
