package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxSubmissionBytes bounds a submission body. Two downsized JPEGs encoded
// as base64 stay well below it.
const maxSubmissionBytes = 16 << 20

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.healthCheck)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.With(middleware.RequestSize(maxSubmissionBytes), h.verifyHashing).
			Post("/api/interventions", h.submitIntervention)
		r.Get("/api/interventions/{draftID}", h.getIntervention)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
