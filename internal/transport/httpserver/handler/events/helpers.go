package events

import (
	"errors"
	"net/http"

	eventsdomain "eventboard-go/internal/domain/events"
	commonhandler "eventboard-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

// writeDomainError maps business errors to responses. It reports false for
// anything it does not recognise so the caller can answer 500.
func writeDomainError(w http.ResponseWriter, err error) bool {
	var validationErr *eventsdomain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "invalid_request", validationErr.Error())
	case errors.Is(err, eventsdomain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "event_not_found", "event not found")
	case errors.Is(err, eventsdomain.ErrNoOccurrence):
		writeError(w, http.StatusNotFound, "occurrence_not_found", "event has no occurrence on date")
	case errors.Is(err, eventsdomain.ErrNotRepeating):
		writeError(w, http.StatusConflict, "not_repeating", "event does not repeat")
	case errors.Is(err, eventsdomain.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "category_not_found", "category not found")
	case errors.Is(err, eventsdomain.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "project_not_found", "project not found")
	case errors.Is(err, eventsdomain.ErrCategoryExists):
		writeError(w, http.StatusConflict, "name_taken", "a category with this name already exists")
	case errors.Is(err, eventsdomain.ErrProjectExists):
		writeError(w, http.StatusConflict, "name_taken", "a project with this name already exists")
	default:
		return false
	}
	return true
}
