package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/models"
	"github.com/go-chi/chi/v5"
)

// submitIntervention persists a draft submitted by an agent. A first
// submission answers 201, a resubmission of the same draft id 200 with
// Duplicate set.
func (h *Handler) submitIntervention(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	agent, found := utils.GetAgentFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.submitIntervention").Msg("no agent in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			log.Err(err).Str("func", "*Handler.submitIntervention").Msg("submission too large")
			http.Error(w, "submission too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Err(err).Str("func", "*Handler.submitIntervention").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	receipt, err := h.services.InterventionService.Submit(ctx, agent, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.submitIntervention").Str("draft_id", req.DraftID).Msg("submission failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	status := http.StatusCreated
	if receipt.Duplicate {
		status = http.StatusOK
	}
	utils.WriteJSON(w, receipt, status)
}

func (h *Handler) getIntervention(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	draftID := chi.URLParam(r, "draftID")

	intervention, err := h.services.InterventionService.Get(ctx, draftID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getIntervention").Str("draft_id", draftID).Msg("error getting intervention")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	agent, _ := utils.GetAgentFromContext(ctx)
	if intervention.AgentID != agent.ID {
		log.Warn().Str("func", "*Handler.getIntervention").
			Str("draft_id", draftID).
			Str("agent_id", agent.ID).
			Msg("intervention belongs to another agent")
		http.Error(w, ErrForeignIntervention.Error(), http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, intervention, http.StatusOK)
}
