package api

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// maxLoggedBody caps logged JSON bodies; base64 image payloads are megabytes.
const maxLoggedBody = 4096

// LoggingTransport wraps an http.RoundTripper to log request and response details.
// Authorization headers are redacted and only JSON bodies are written.
type LoggingTransport struct {
	Transport http.RoundTripper
	logFile   io.WriteCloser
	mu        sync.Mutex
	writer    *bufio.Writer
}

// NewLoggingTransport creates a new LoggingTransport.
// It opens the specified log file for appending.
func NewLoggingTransport(transport http.RoundTripper, logFilePath string) (*LoggingTransport, error) {
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open API log file %s: %w", logFilePath, err)
	}
	return newLoggingTransport(transport, f), nil
}

func newLoggingTransport(transport http.RoundTripper, w io.WriteCloser) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
		logFile:   w,
		writer:    bufio.NewWriter(w),
	}
}

// RoundTrip executes a single HTTP transaction, logging details.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	t.logRequest(req, startTime)

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(startTime)

	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.writer.Flush()

	if err != nil {
		t.writeLog(fmt.Sprintf("--- Response Error (%s, Duration: %v) ---\n%s", time.Now().Format(time.RFC3339), duration, err.Error()))
		return resp, err
	}

	contentType := resp.Header.Get("Content-Type")
	headerDump, dumpErr := httputil.DumpResponse(resp, false)
	if dumpErr != nil {
		log.WithError(dumpErr).Error("Failed to dump response headers for logging")
		headerDump = []byte("Status: " + resp.Status)
	}

	if !strings.HasPrefix(contentType, "application/json") {
		t.writeLog(fmt.Sprintf("--- Response Headers (%s, Duration: %v, Type: %s) ---\n%s\n(Body not logged)", time.Now().Format(time.RFC3339), duration, contentType, string(headerDump)))
		return resp, nil
	}

	bodyBytes, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	// Restore the body so the caller can read it.
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if readErr != nil {
		log.WithError(readErr).Error("Failed to read response body for logging")
		t.writeLog(fmt.Sprintf("--- Response Headers (%s, Duration: %v) ---\n%s\n(Body read failed)", time.Now().Format(time.RFC3339), duration, string(headerDump)))
		return resp, nil
	}

	t.writeLog(fmt.Sprintf("--- Response Headers (%s, Duration: %v) ---\n%s\n--- Response Body (%s, %d bytes) ---\n%s",
		time.Now().Format(time.RFC3339), duration, string(headerDump), contentType, len(bodyBytes), clip(bodyBytes)))
	return resp, nil
}

func (t *LoggingTransport) logRequest(req *http.Request, startTime time.Time) {
	// Dump a redacted clone; multipart uploads are binary so only headers go out.
	clone := req.Clone(req.Context())
	if clone.Header.Get("Authorization") != "" {
		clone.Header.Set("Authorization", "[REDACTED]")
	}
	withBody := req.Body != nil && req.GetBody != nil &&
		strings.HasPrefix(req.Header.Get("Content-Type"), "application/json")
	if withBody {
		body, err := req.GetBody()
		if err != nil {
			withBody = false
		} else {
			clone.Body = body
		}
	}
	if !withBody {
		clone.Body = nil
		clone.ContentLength = 0
	}

	reqDump, err := httputil.DumpRequestOut(clone, withBody)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		log.WithError(err).Error("Failed to dump API request for logging")
		t.writeLog(fmt.Sprintf("--- Request (%s) ---\n%s %s", startTime.Format(time.RFC3339), req.Method, req.URL.Redacted()))
		return
	}
	if !withBody && req.Body != nil {
		reqDump = append(reqDump, []byte("(Body not logged)")...)
	}
	t.writeLog(fmt.Sprintf("--- Request (%s) ---\n%s", startTime.Format(time.RFC3339), string(reqDump)))
}

func clip(b []byte) string {
	if len(b) <= maxLoggedBody {
		return string(b)
	}
	return string(b[:maxLoggedBody]) + fmt.Sprintf("... (%d bytes truncated)", len(b)-maxLoggedBody)
}

// writeLog writes a string to the buffered writer. Callers hold t.mu.
func (t *LoggingTransport) writeLog(logString string) {
	if _, err := t.writer.WriteString(logString + "\n\n"); err != nil {
		// Log to stderr if writing to file fails
		fmt.Fprintf(os.Stderr, "Error writing to API log file: %v\n", err)
	}
}

// Close flushes and closes the underlying log file.
func (t *LoggingTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	errFlush := t.writer.Flush() // Ensure buffer is flushed before closing
	errClose := t.logFile.Close()
	if errFlush != nil {
		return fmt.Errorf("failed to flush API log buffer: %w", errFlush)
	}
	return errClose
}
