package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bufferCloser collects log output in memory.
type bufferCloser struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func (b *bufferCloser) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func (b *bufferCloser) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLoggingTransport_JSONRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"prompt":"a red fox"}`, string(body), "request body must reach the server intact")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"IpfsHash":"Qm111"}`))
	}))
	defer server.Close()

	out := &bufferCloser{}
	client := &http.Client{Transport: newLoggingTransport(nil, out)}

	req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/images/generations", strings.NewReader(`{"prompt":"a red fox"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer sk-secret")

	resp, err := client.Do(req)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, `{"IpfsHash":"Qm111"}`, string(respBody), "response body must be restored for the caller")

	logged := out.String()
	assert.Contains(t, logged, "--- Request")
	assert.Contains(t, logged, "[REDACTED]")
	assert.NotContains(t, logged, "sk-secret")
	assert.Contains(t, logged, `"prompt":"a red fox"`)
	assert.Contains(t, logged, `{"IpfsHash":"Qm111"}`)
	assert.Equal(t, "Bearer sk-secret", req.Header.Get("Authorization"), "original request is not modified")
}

func TestLoggingTransport_SkipsBinaryBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG binary"))
	}))
	defer server.Close()

	out := &bufferCloser{}
	client := &http.Client{Transport: newLoggingTransport(nil, out)}

	req, err := http.NewRequest(http.MethodPost, server.URL+"/pinning/pinFileToIPFS", strings.NewReader("--boundary binary-part"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=boundary")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	logged := out.String()
	assert.NotContains(t, logged, "binary-part")
	assert.NotContains(t, logged, "PNG binary")
	assert.Contains(t, logged, "(Body not logged)")
}

func TestLoggingTransport_ClipsLargeBodies(t *testing.T) {
	large := `{"b64_json":"` + strings.Repeat("A", maxLoggedBody*2) + `"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(large))
	}))
	defer server.Close()

	out := &bufferCloser{}
	transport := newLoggingTransport(nil, out)
	resp, err := (&http.Client{Transport: transport}).Get(server.URL)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Len(t, body, len(large))
	assert.Contains(t, out.String(), "bytes truncated")

	require.NoError(t, transport.Close())
	assert.True(t, out.closed)
}
