// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helpers shared by the agent and the
// intake server: context keys, keyed hashing, HTTP response writing, the
// resty client wrapper, session-token parsing, clocks and id generation.
package utils

import (
	"context"

	"github.com/fleetzen/fleetzen/models"
)

// contextKey is a private type for context keys.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// AgentCtxKey is the context key under which the authenticated agent is stored.
var AgentCtxKey = contextKey("agent")

// WithAgent returns a copy of ctx carrying agent.
func WithAgent(ctx context.Context, agent models.Agent) context.Context {
	return context.WithValue(ctx, AgentCtxKey, agent)
}

// GetAgentFromContext returns the agent stored under [AgentCtxKey].
// ok is false when the value is missing or has an unexpected type.
func GetAgentFromContext(ctx context.Context) (models.Agent, bool) {
	agent, ok := ctx.Value(AgentCtxKey).(models.Agent)
	return agent, ok
}
