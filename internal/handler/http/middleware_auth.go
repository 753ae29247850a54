// Package http implements the intake server's HTTP transport. It provides
// middleware, route handlers, and request/response utilities for the REST
// API. Authentication, logging, tracing, compression, and integrity checks
// are handled at this layer before requests reach the service layer.
package http

import (
	"errors"
	"net/http"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/service"
	"github.com/fleetzen/fleetzen/internal/utils"
)

// auth is an HTTP middleware that enforces bearer session tokens.
//
// It extracts the token from the "Authorization" header, verifies it via
// [service.AuthService.ParseToken] and stores the agent it identifies in the
// request context (see [utils.WithAgent]) before delegating to next.
//
// Requests are rejected with HTTP 401 when the header is absent, malformed,
// or carries a token that is expired or fails verification.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, ErrInvalidAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		agent, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
				log.Err(err).Msg("token expired or invalid")
				http.Error(w, service.ErrTokenIsExpiredOrInvalid.Error(), http.StatusUnauthorized)
			default:
				log.Err(err).Msg("error occurred during parsing token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithAgent(ctx, agent)))
	})
}
