package calendar

import (
	"errors"
	"fmt"
)

// ErrStaleResult signals that a resolution pass was superseded by a newer
// one. Callers drop the result without reporting it.
var ErrStaleResult = errors.New("stale calendar result discarded")

// RecurrenceInputError marks a template that cannot be expanded: a malformed
// anchor date or an unknown repeat value. Only that template is skipped.
type RecurrenceInputError struct {
	TemplateID string
	Field      string
	Value      string
	Err        error
}

func (e *RecurrenceInputError) Error() string {
	msg := fmt.Sprintf("template %s: invalid %s %q", e.TemplateID, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecurrenceInputError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failure of a store collaborator. It aborts the whole
// resolution pass.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *StoreError
	if errors.As(err, &existing) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
