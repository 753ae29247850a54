// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fleetzen/fleetzen/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidAgentToken is returned when a session token does not carry a
// usable agent identity.
var ErrInvalidAgentToken = errors.New("invalid agent token")

// AgentClaims is the claim set of a FleetZen session token. The subject is
// the agent identifier; Name is the display name shown on drafts.
type AgentClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// GenerateAgentToken creates an HMAC-SHA256 signed session token for agent.
//
// Sessions are normally issued by the authentication backend; this helper
// exists for local setups and tests that need a token the intake server
// accepts. All parameters are required.
func GenerateAgentToken(issuer string, agent models.Agent, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || agent.ID == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating agent token")
	}

	now := time.Now()
	claims := &AgentClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   agent.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name: agent.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing agent token: %w", err)
	}

	return signed, nil
}

// ValidateAgentToken verifies the signature, issuer and expiry of
// tokenString and returns the agent it was issued for.
func ValidateAgentToken(tokenString, tokenSignKey, tokenIssuer string) (models.Agent, error) {
	claims := &AgentClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Agent{}, fmt.Errorf("error occurred validating agent token: %w", err)
	}

	return agentFromClaims(claims)
}

// ParseAgentUnverified reads the agent identity from tokenString without
// checking its signature. The agent only uses the identity to stamp drafts
// for display; the backend performs the real verification on submission.
func ParseAgentUnverified(tokenString string) (models.Agent, error) {
	claims := &AgentClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return models.Agent{}, fmt.Errorf("%w: %w", ErrInvalidAgentToken, err)
	}

	return agentFromClaims(claims)
}

func agentFromClaims(claims *AgentClaims) (models.Agent, error) {
	if claims.Subject == "" {
		return models.Agent{}, fmt.Errorf("%w: empty subject", ErrInvalidAgentToken)
	}

	return models.Agent{ID: claims.Subject, Name: claims.Name}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
