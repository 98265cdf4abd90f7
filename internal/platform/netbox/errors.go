package netbox

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const maxMessageLen = 512

// APIError is a non-success response from the NetBox API.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("netbox %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{Method: method, Path: path, Status: status, Message: responseMessage(body)}
}

// responseMessage compacts a response body into a single-line message.
func responseMessage(body []byte) string {
	msg := strings.Join(strings.Fields(string(body)), " ")
	if msg == "" {
		return "empty response"
	}
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "..."
	}
	return msg
}

// isDuplicate reports whether a create response signals a uniqueness conflict.
func isDuplicate(status int, body []byte) bool {
	return status == http.StatusBadRequest && strings.Contains(strings.ToLower(string(body)), "already exists")
}

func apiStatus(err error, statuses ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, s := range statuses {
		if apiErr.Status == s {
			return true
		}
	}
	return false
}

// IsNotFound checks if an error is a 404 response.
func IsNotFound(err error) bool {
	return apiStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if an error is a 401 or 403 response.
func IsUnauthorized(err error) bool {
	return apiStatus(err, http.StatusUnauthorized, http.StatusForbidden)
}

// IsRetryable checks if an error is a response worth retrying: rate limiting
// or a gateway/availability failure.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && retryableStatus(apiErr.Status)
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
