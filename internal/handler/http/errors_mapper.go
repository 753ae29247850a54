package http

import (
	"errors"
	"net/http"

	"github.com/fleetzen/fleetzen/internal/service"
	"github.com/fleetzen/fleetzen/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidSubmission:       http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrInterventionNotFound:    http.StatusNotFound,
	service.ErrVersionIsNotSpecified:   http.StatusInternalServerError,

	store.ErrInterventionNotFound: http.StatusNotFound,
	store.ErrStorageBusy:          http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
	store.ErrDecodingRecord:   http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
