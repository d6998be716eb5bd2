package events

import (
	"net/http"

	eventsdomain "eventboard-go/internal/domain/events"
	"eventboard-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type updateOccurrenceRequest struct {
	IsComplete   *bool                 `json:"is_complete"`
	Requirements *[]requirementPayload `json:"requirements"`
}

type occurrenceResponse struct {
	EventID      string               `json:"event_id"`
	Date         string               `json:"date"`
	IsComplete   bool                 `json:"is_complete"`
	Requirements []requirementPayload `json:"requirements"`
}

// UpdateOccurrence sets completion and/or requirement state of one dated
// occurrence. Unset fields are left alone.
func (h *Handlers) UpdateOccurrence(w http.ResponseWriter, r *http.Request) {
	var req updateOccurrenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.IsComplete == nil && req.Requirements == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "is_complete or requirements is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	eventID := chi.URLParam(r, "id")
	date, err := eventsdomain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	if req.IsComplete != nil {
		err = h.Events.SetOccurrenceComplete(r.Context(), user.ID, eventID, date, *req.IsComplete)
	}
	if err == nil && req.Requirements != nil {
		err = h.Events.SetOccurrenceRequirements(r.Context(), user.ID, eventID, date, toRequirements(*req.Requirements))
	}
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.update_occurrence: update rejected", err, "user_id", user.ID, "event_id", eventID, "date", date.String())
			return
		}
		h.log.InternalError("events.update_occurrence: update failed", err, "user_id", user.ID, "event_id", eventID, "date", date.String())
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	state, err := h.Events.Occurrence(r.Context(), user.ID, eventID, date)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.update_occurrence: occurrence gone", err, "user_id", user.ID, "event_id", eventID, "date", date.String())
			return
		}
		h.log.InternalError("events.update_occurrence: reload failed", err, "user_id", user.ID, "event_id", eventID, "date", date.String())
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceResponse(*state))
}

func (h *Handlers) GetOccurrence(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	eventID := chi.URLParam(r, "id")
	date, err := eventsdomain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	state, err := h.Events.Occurrence(r.Context(), user.ID, eventID, date)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.get_occurrence: lookup rejected", err, "user_id", user.ID, "event_id", eventID, "date", date.String())
			return
		}
		h.log.InternalError("events.get_occurrence: lookup failed", err, "user_id", user.ID, "event_id", eventID, "date", date.String())
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toOccurrenceResponse(*state))
}

func (h *Handlers) DeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	eventID := chi.URLParam(r, "id")
	date, err := eventsdomain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	if err := h.Events.DeleteOccurrence(r.Context(), user.ID, eventID, date); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.delete_occurrence: delete rejected", err, "user_id", user.ID, "event_id", eventID, "date", date.String())
			return
		}
		h.log.InternalError("events.delete_occurrence: delete failed", err, "user_id", user.ID, "event_id", eventID, "date", date.String())
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toOccurrenceResponse(state eventsdomain.OccurrenceState) occurrenceResponse {
	return occurrenceResponse{
		EventID:      state.EventID,
		Date:         state.Date.String(),
		IsComplete:   state.IsComplete,
		Requirements: toRequirementPayloads(state.Requirements),
	}
}
