package calendar

import (
	"errors"
	"net/http"
	"strings"

	calendardomain "eventboard-go/internal/domain/calendar"
	"eventboard-go/internal/domain/events"
	"eventboard-go/internal/transport/httpserver/middleware"
)

type navigateRequest struct {
	Start     string `json:"start"`
	Direction string `json:"direction"`
}

const (
	directionPrevious = "previous"
	directionNext     = "next"
	directionToday    = "today"
)

// Board returns the week the user last navigated to, loading the current
// week on first use.
func (h *Handlers) Board(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	board := h.Boards.For(user.ID)
	if view, ok := board.Current(); ok {
		writeJSON(w, http.StatusOK, toWeekResponse(view))
		return
	}

	h.navigate(w, r, board, h.Calendar.CurrentWeekStart())
}

// Navigate moves the board to an explicit start date or one week back or
// forward from the committed week.
func (h *Handlers) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	board := h.Boards.For(user.ID)
	target, err := h.navigationTarget(board, req)
	if err != nil {
		h.log.BusinessError("calendar.navigate: invalid target", err, "user_id", user.ID)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	h.navigate(w, r, board, target)
}

func (h *Handlers) navigate(w http.ResponseWriter, r *http.Request, board *calendardomain.Board, target events.Date) {
	view, err := board.Navigate(r.Context(), target)
	if err != nil {
		if errors.Is(err, calendardomain.ErrStaleResult) {
			// A newer navigation owns the board; this answer is dropped.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeErrorWith(w, http.StatusServiceUnavailable, "resolution_failed", resolutionFailedMessage, "week", toWeekResponse(h.Calendar.EmptyWeek(target)))
		return
	}

	writeJSON(w, http.StatusOK, toWeekResponse(view))
}

func (h *Handlers) navigationTarget(board *calendardomain.Board, req navigateRequest) (events.Date, error) {
	if start := strings.TrimSpace(req.Start); start != "" {
		return events.ParseDate(start)
	}

	base := h.Calendar.CurrentWeekStart()
	if view, ok := board.Current(); ok {
		base = view.Start
	}

	switch strings.ToLower(strings.TrimSpace(req.Direction)) {
	case directionPrevious:
		return base.AddDays(-calendardomain.DaysPerWeek), nil
	case directionNext:
		return base.AddDays(calendardomain.DaysPerWeek), nil
	case directionToday, "":
		return h.Calendar.CurrentWeekStart(), nil
	default:
		return events.Date{}, errInvalidDirection
	}
}
