package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed backend call: the HTTP status plus whatever message the
// backend attached. Read paths log it and keep stale data; mutating paths
// surface it to the user.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// errorBody covers the message shapes the backend is known to emit.
type errorBody struct {
	Message any    `json:"message"`
	Error   string `json:"error"`
}

// newError builds an Error from a non-2xx response body.
func newError(status int, body []byte) *Error {
	e := &Error{Status: status}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch m := parsed.Message.(type) {
		case string:
			e.Message = m
		case []any:
			// NestJS validation errors arrive as a string array.
			for i, v := range m {
				if i > 0 {
					e.Message += "; "
				}
				e.Message += fmt.Sprint(v)
			}
		}
		if e.Message == "" {
			e.Message = parsed.Error
		}
	}
	if e.Message == "" && len(body) > 0 && len(body) < 200 {
		e.Message = string(body)
	}
	return e
}

// IsUnauthorized reports whether err is a 401 from the backend, which the
// session layer treats as "not logged in" rather than a failure.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
