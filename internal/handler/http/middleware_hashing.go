package http

import (
	"bytes"
	"crypto/hmac"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/utils"
)

// verifyHashing checks the HashSHA256 header against the HMAC-SHA256 of the
// raw request body. It is a no-op when the handler has no hash key.
func (h *Handler) verifyHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.hashKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		hashFromRequest := strings.ToLower(strings.TrimSpace(r.Header.Get(utils.HashHeader)))
		if hashFromRequest == "" {
			log.Error().Str("func", "*Handler.verifyHashing").Msg("hash header is missing")
			http.Error(w, ErrMissingHash.Error(), http.StatusBadRequest)
			return
		}

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				log.Err(err).Str("func", "*Handler.verifyHashing").Msg("request body too large")
				http.Error(w, "submission too large", http.StatusRequestEntityTooLarge)
				return
			}
			log.Err(err).Str("func", "*Handler.verifyHashing").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		hashedBody := utils.HashString(string(body), h.hashKey)
		if !hmac.Equal([]byte(hashedBody), []byte(hashFromRequest)) {
			log.Error().Str("func", "*Handler.verifyHashing").
				Str("hash from request", hashFromRequest).
				Str("hashed body", hashedBody).
				Msg("hashes are not equal")
			http.Error(w, ErrHashMismatch.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
