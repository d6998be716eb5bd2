package middleware

import (
	"errors"
	"fmt"
)

var errMissingSubject = errors.New("identity response has no user id")

type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("identity service answered %d", e.status)
}
