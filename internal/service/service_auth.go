package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/models"
)

// authService verifies agent session tokens on the intake server. Sessions
// are issued by the authentication backend; CreateToken only serves local
// setups that have no such backend.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	logger *logger.Logger
}

// NewAuthService constructs an AuthService populated with the token
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(cfg config.ServerApp, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey: cfg.TokenSignKey,
		tokenIssuer:  cfg.TokenIssuer,
		logger:       logger,
	}
}

// ParseToken validates tokenString and returns the agent it identifies.
// Any verification failure is reported as [ErrTokenIsExpiredOrInvalid].
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Agent, error) {
	agent, err := utils.ValidateAgentToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		a.logger.Debug().Err(err).
			Str("func", "authService.ParseToken").
			Msg("token rejected")
		return models.Agent{}, fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)
	}

	return agent, nil
}

// CreateToken signs a session token for agent valid for ttl.
func (a *authService) CreateToken(ctx context.Context, agent models.Agent, ttl time.Duration) (string, error) {
	token, err := utils.GenerateAgentToken(a.tokenIssuer, agent, ttl, a.tokenSignKey)
	if err != nil {
		a.logger.Err(err).
			Str("func", "authService.CreateToken").
			Str("agent_id", agent.ID).
			Msg("failed to create token")
		return "", err
	}

	return token, nil
}
