package calendar

import (
	"net/http"

	"eventboard-go/internal/domain/events"
	commonhandler "eventboard-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeErrorWith(w http.ResponseWriter, status int, code, message, key string, payload interface{}) {
	commonhandler.WriteErrorWith(w, status, code, message, key, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func parseDateParam(value string) (events.Date, error) {
	return commonhandler.ParseDateParam(value)
}
