package calendar

import (
	"net/http"

	"eventboard-go/internal/transport/httpserver/middleware"
)

const resolutionFailedMessage = "calendar could not be resolved"

func (h *Handlers) Week(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	start, err := parseDateParam(r.URL.Query().Get("start"))
	if err != nil {
		h.log.BusinessError("calendar.week: invalid start", err, "user_id", user.ID)
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start")
		return
	}

	view, err := h.Calendar.Week(r.Context(), user.ID, start)
	if err != nil {
		writeErrorWith(w, http.StatusServiceUnavailable, "resolution_failed", resolutionFailedMessage, "week", toWeekResponse(view))
		return
	}

	writeJSON(w, http.StatusOK, toWeekResponse(view))
}

func (h *Handlers) Day(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	day, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		h.log.BusinessError("calendar.day: invalid date", err, "user_id", user.ID)
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	summary, err := h.Calendar.Day(r.Context(), user.ID, day)
	if err != nil {
		writeErrorWith(w, http.StatusServiceUnavailable, "resolution_failed", resolutionFailedMessage, "day", toDayResponse(summary))
		return
	}

	writeJSON(w, http.StatusOK, toDayResponse(summary))
}

func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	data, err := h.Calendar.Feed(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("calendar.feed: render failed", err, "user_id", user.ID)
		writeError(w, http.StatusServiceUnavailable, "resolution_failed", resolutionFailedMessage)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="eventboard.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
