package events

import (
	"net/http"

	eventsdomain "eventboard-go/internal/domain/events"
	"eventboard-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createEventRequest struct {
	Title          string               `json:"title"`
	Date           string               `json:"date"`
	Time           string               `json:"time"`
	Category       string               `json:"category"`
	Priority       string               `json:"priority"`
	Repeat         string               `json:"repeat"`
	RepeatForever  bool                 `json:"repeat_forever"`
	RepeatDuration int                  `json:"repeat_duration"`
	Requirements   []requirementPayload `json:"requirements"`
	Description    string               `json:"description"`
	XP             int                  `json:"xp"`
}

type updateEventRequest struct {
	Title          *string               `json:"title"`
	Date           *string               `json:"date"`
	Time           *string               `json:"time"`
	Category       *string               `json:"category"`
	Priority       *string               `json:"priority"`
	Repeat         *string               `json:"repeat"`
	RepeatForever  *bool                 `json:"repeat_forever"`
	RepeatDuration *int                  `json:"repeat_duration"`
	Requirements   *[]requirementPayload `json:"requirements"`
	IsComplete     *bool                 `json:"is_complete"`
	Description    *string               `json:"description"`
	XP             *int                  `json:"xp"`
}

func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Events.ListEvents(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("events.list: list events failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]eventResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toEventResponse(item))
	}

	writeJSON(w, http.StatusOK, eventListResponse{
		Items: response,
		Total: len(response),
	})
}

func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	eventID := chi.URLParam(r, "id")
	event, err := h.Events.GetEvent(r.Context(), user.ID, eventID)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.get: lookup failed", err, "user_id", user.ID, "event_id", eventID)
			return
		}
		h.log.InternalError("events.get: get event failed", err, "user_id", user.ID, "event_id", eventID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(*event))
}

func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Events.CreateEvent(r.Context(), eventsdomain.CreateEventInput{
		UserID:         user.ID,
		Title:          req.Title,
		Date:           req.Date,
		Time:           req.Time,
		Category:       req.Category,
		Priority:       eventsdomain.Priority(req.Priority),
		Repeat:         eventsdomain.Repeat(req.Repeat),
		RepeatForever:  req.RepeatForever,
		RepeatDuration: req.RepeatDuration,
		Requirements:   toRequirements(req.Requirements),
		Description:    req.Description,
		XP:             req.XP,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.create: validation failed", err, "user_id", user.ID)
			return
		}
		h.log.InternalError("events.create: create event failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(*created))
}

func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	input := eventsdomain.UpdateEventInput{
		ID:             chi.URLParam(r, "id"),
		UserID:         user.ID,
		Title:          req.Title,
		Date:           req.Date,
		Time:           req.Time,
		Category:       req.Category,
		RepeatForever:  req.RepeatForever,
		RepeatDuration: req.RepeatDuration,
		IsComplete:     req.IsComplete,
		Description:    req.Description,
		XP:             req.XP,
	}
	if req.Priority != nil {
		priority := eventsdomain.Priority(*req.Priority)
		input.Priority = &priority
	}
	if req.Repeat != nil {
		repeat := eventsdomain.Repeat(*req.Repeat)
		input.Repeat = &repeat
	}
	if req.Requirements != nil {
		requirements := toRequirements(*req.Requirements)
		if requirements == nil {
			requirements = []eventsdomain.Requirement{}
		}
		input.Requirements = &requirements
	}

	updated, err := h.Events.UpdateEvent(r.Context(), input)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.update: update rejected", err, "user_id", user.ID, "event_id", input.ID)
			return
		}
		h.log.InternalError("events.update: update event failed", err, "user_id", user.ID, "event_id", input.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(*updated))
}

func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	eventID := chi.URLParam(r, "id")
	if err := h.Events.DeleteEvent(r.Context(), user.ID, eventID); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.delete: delete rejected", err, "user_id", user.ID, "event_id", eventID)
			return
		}
		h.log.InternalError("events.delete: delete event failed", err, "user_id", user.ID, "event_id", eventID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	eventID := chi.URLParam(r, "id")
	if err := h.Events.DeleteSeries(r.Context(), user.ID, eventID); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("events.delete_series: delete rejected", err, "user_id", user.ID, "event_id", eventID)
			return
		}
		h.log.InternalError("events.delete_series: delete series failed", err, "user_id", user.ID, "event_id", eventID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
