package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go-ai-nft-minter/internal/helpers"
)

// Custom Error Types
var (
	ErrRateLimited  = errors.New("API rate limit exceeded")
	ErrUnauthorized = errors.New("API request unauthorized (check API key)")
	ErrNotFound     = errors.New("API resource not found")
	ErrServerError  = errors.New("API server error")
	ErrBadRequest   = errors.New("API request rejected")
)

// maxErrorBody caps how much of an error response is kept in the message.
const maxErrorBody = 512

// StatusError is returned for any non-2xx response. It unwraps to one of the
// sentinel errors above so callers can match with errors.Is.
type StatusError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request failed with status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed with status %d: %s", e.Service, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrServerError
	default:
		return ErrBadRequest
	}
}

// CheckResponse returns nil for 2xx responses and a *StatusError otherwise.
// On error the body is drained and closed; on success it is left untouched.
func CheckResponse(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return &StatusError{
		Service:    service,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body),
	}
}

// errorMessage pulls a human readable message out of an error body. Both
// {"error": {"message": ...}} and {"error": "..."} shapes are understood;
// anything else is returned trimmed.
func errorMessage(body []byte) string {
	var structured struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && len(structured.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
			Reason  string `json:"reason"`
			Details string `json:"details"`
		}
		if err := json.Unmarshal(structured.Error, &nested); err == nil {
			switch {
			case nested.Message != "":
				return nested.Message
			case nested.Details != "":
				return nested.Details
			case nested.Reason != "":
				return nested.Reason
			}
		}
		var plain string
		if err := json.Unmarshal(structured.Error, &plain); err == nil && plain != "" {
			return plain
		}
	}
	msg := strings.TrimSpace(string(body))
	if clipped := helpers.Truncate(msg, maxErrorBody); clipped != msg {
		msg = clipped + "..."
	}
	return msg
}
