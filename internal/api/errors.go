package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TransportError means no response was received (dial, DNS, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response. Problem-details bodies fill Title and
// Detail; plain {error, message} bodies fill Code and Message.
type APIError struct {
	Status  int
	Title   string
	Detail  string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	text := e.Problem()
	if text == "" {
		return fmt.Sprintf("server error (%d)", e.Status)
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, text)
}

// Problem is the user-facing text of the error.
func (e *APIError) Problem() string {
	switch {
	case e.Detail != "" && e.Title != "":
		return e.Title + ": " + e.Detail
	case e.Detail != "":
		return e.Detail
	case e.Title != "":
		return e.Title
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	}
	return http.StatusText(e.Status)
}

type problemPayload struct {
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p problemPayload) empty() bool {
	return p.Title == "" && p.Detail == "" && p.Error == "" && p.Message == ""
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}

// IsUnauthorized reports a 401 or 403 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Describe returns the text shown to the user for err.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Problem()
	}
	return strings.TrimSpace(err.Error())
}
