package service

import (
	"context"
	"time"

	"github.com/fleetzen/fleetzen/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// InterventionService accepts submissions on the intake server.
type InterventionService interface {
	// Submit persists req for agent. Resubmitting a known draft id stores
	// nothing and returns a receipt with Duplicate set.
	Submit(ctx context.Context, agent models.Agent, req models.SubmissionRequest) (models.SubmissionReceipt, error)

	// Get returns the stored intervention for draftID or
	// [ErrInterventionNotFound].
	Get(ctx context.Context, draftID string) (models.Intervention, error)
}

// AuthService verifies and issues agent session tokens.
type AuthService interface {
	ParseToken(ctx context.Context, tokenString string) (models.Agent, error)
	CreateToken(ctx context.Context, agent models.Agent, ttl time.Duration) (string, error)
}

// AppInfoService exposes build metadata.
type AppInfoService interface {
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
