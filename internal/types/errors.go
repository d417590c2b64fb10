package types

import (
	"errors"
	"fmt"
)

// RequestError is a problem with what the client sent. Handlers answer it
// with a 400 and the error text.
type RequestError struct {
	Field   string
	Reason  string
	Details map[string]interface{}
}

func (e *RequestError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

func NewRequestError(field, reason string) *RequestError {
	return &RequestError{
		Field:   field,
		Reason:  reason,
		Details: make(map[string]interface{}),
	}
}

func (e *RequestError) WithDetail(key string, value interface{}) *RequestError {
	e.Details[key] = value
	return e
}
