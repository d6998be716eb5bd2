package common

import (
	"strings"

	"eventboard-go/internal/domain/events"
)

// ParseDateParam parses an optional YYYY-MM-DD value. Empty yields the zero
// date, which the calendar reads as "today".
func ParseDateParam(value string) (events.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return events.Date{}, nil
	}
	return events.ParseDate(value)
}
