// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the agent's transport to the FleetZen intake
// server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync
// service from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401). Requests that never got a
// response wrap [ErrTransport].
package adapter

import (
	"context"

	"github.com/fleetzen/fleetzen/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the intake
// server.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token, or an empty string.
	Token() string

	// Ping checks that the server answers its health endpoint.
	Ping(ctx context.Context) error

	// Version returns the build info reported by the server.
	Version(ctx context.Context) (models.AppBuildInfo, error)

	// Submit sends one full draft. The server deduplicates on DraftID, so
	// resubmitting a draft whose earlier receipt was lost is safe.
	Submit(ctx context.Context, req models.SubmissionRequest) (models.SubmissionReceipt, error)
}
