package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestCheckResponse_Success(t *testing.T) {
	assert.NoError(t, CheckResponse("openai", response(http.StatusOK, `{}`)))
	assert.NoError(t, CheckResponse("pinata", response(http.StatusCreated, `{}`)))
}

func TestCheckResponse_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"Unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"Forbidden", http.StatusForbidden, ErrUnauthorized},
		{"Rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"Not found", http.StatusNotFound, ErrNotFound},
		{"Server error", http.StatusBadGateway, ErrServerError},
		{"Bad request", http.StatusBadRequest, ErrBadRequest},
		{"Payload too large", http.StatusRequestEntityTooLarge, ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse("svc", response(tt.status, ""))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, "svc", se.Service)
		})
	}
}

func TestCheckResponse_Messages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"OpenAI shape", `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, "Incorrect API key provided"},
		{"Pinata shape", `{"error":{"reason":"INVALID_CREDENTIALS","details":"Invalid authentication credentials"}}`, "Invalid authentication credentials"},
		{"Plain string error", `{"error":"Unauthorized"}`, "Unauthorized"},
		{"Not JSON", "  upstream timeout \n", "upstream timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse("svc", response(http.StatusUnauthorized, tt.body))
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.want, se.Message)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCheckResponse_LongBodyKeepsRunes(t *testing.T) {
	body := strings.Repeat("é", maxErrorBody+10)
	err := CheckResponse("svc", response(http.StatusBadGateway, body))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.True(t, utf8.ValidString(se.Message), "message must stay valid UTF-8")
	assert.Equal(t, strings.Repeat("é", maxErrorBody)+"...", se.Message)
}
