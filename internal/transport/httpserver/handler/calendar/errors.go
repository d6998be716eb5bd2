package calendar

import "errors"

var errInvalidDirection = errors.New("direction must be previous, next or today")
