package events

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeNone marks an event without a fixed time. Such events only show up on
// the day dashboard.
const TimeNone = "none"

var ErrNoTime = errors.New("event has no time")

var timeRangePattern = regexp.MustCompile(`^from (\d{1,2}):(\d{2}) (AM|PM) to (\d{1,2}):(\d{2}) (AM|PM)$`)

type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	hour := c.Hour % 12
	if hour == 0 {
		hour = 12
	}
	period := "AM"
	if c.Hour >= 12 {
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute, period)
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

type TimeRange struct {
	Start ClockTime
	End   ClockTime
}

func (r TimeRange) String() string {
	return "from " + r.Start.String() + " to " + r.End.String()
}

// ParseTimeRange parses "from h:mm AM to h:mm PM". The empty string and the
// "none" sentinel return ErrNoTime.
func ParseTimeRange(value string) (TimeRange, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == TimeNone {
		return TimeRange{}, ErrNoTime
	}

	match := timeRangePattern.FindStringSubmatch(value)
	if match == nil {
		return TimeRange{}, fmt.Errorf("invalid time range %q", value)
	}

	start, err := parseClock(match[1], match[2], match[3])
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid time range %q: %w", value, err)
	}
	end, err := parseClock(match[4], match[5], match[6])
	if err != nil {
		return TimeRange{}, fmt.Errorf("invalid time range %q: %w", value, err)
	}

	return TimeRange{Start: start, End: end}, nil
}

func parseClock(hourValue, minuteValue, period string) (ClockTime, error) {
	hour, err := strconv.Atoi(hourValue)
	if err != nil || hour < 1 || hour > 12 {
		return ClockTime{}, fmt.Errorf("hour out of range: %s", hourValue)
	}
	minute, err := strconv.Atoi(minuteValue)
	if err != nil || minute > 59 {
		return ClockTime{}, fmt.Errorf("minute out of range: %s", minuteValue)
	}

	switch {
	case period == "PM" && hour != 12:
		hour += 12
	case period == "AM" && hour == 12:
		hour = 0
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}
