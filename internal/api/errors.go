package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotImage is returned when an avatar upload is not an image file.
var ErrNotImage = errors.New("avatar must be an image")

// Error is a non-2xx response from the backend.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// backend response error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns text suitable for showing to the user. The server's own
// message wins; otherwise fallback is used, and failing that the error text.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNotImage) {
		return "El archivo debe ser una imagen."
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

func newError(req *http.Request, resp *http.Response) *Error {
	apiErr := &Error{
		Method: req.Method,
		Path:   req.URL.Path,
		Status: resp.StatusCode,
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	var payload errorPayload
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = strings.TrimSpace(payload.Error)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(payload.Message)
		}
	}
	return apiErr
}
