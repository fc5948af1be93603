package exchange

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// maxLoggedBody caps how much of each body is written to the log.
const maxLoggedBody = 4096

// debugTransport logs request and response bodies at debug level.
type debugTransport struct {
	base http.RoundTripper
	log  *log.Logger
}

// NewDebugTransport wraps base (http.DefaultTransport when nil) so every
// round trip is logged with sensitive headers masked.
func NewDebugTransport(base http.RoundTripper, logger *log.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &debugTransport{base: base, log: logger}
}

// RoundTrip implements http.RoundTripper.
func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	reqBody, err := drain(&req.Body)
	if err != nil {
		dt.log.Debug("Failed to capture request body", "error", err)
	}
	dt.log.Debug("HTTP request",
		"method", req.Method,
		"url", req.URL.String(),
		"headers", sanitizeHeaders(req.Header),
		"body", truncateBody(reqBody))

	resp, err := dt.base.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		dt.log.Debug("HTTP request failed", "url", req.URL.String(), "error", err, "duration_ms", elapsed.Milliseconds())
		return resp, err
	}

	respBody, err := drain(&resp.Body)
	if err != nil {
		dt.log.Debug("Failed to capture response body", "error", err)
	}
	dt.log.Debug("HTTP response",
		"status", resp.StatusCode,
		"headers", sanitizeHeaders(resp.Header),
		"body", truncateBody(respBody),
		"duration_ms", elapsed.Milliseconds())

	return resp, nil
}

// drain reads *body fully and replaces it with an equivalent reader.
func drain(body *io.ReadCloser) ([]byte, error) {
	if *body == nil || *body == http.NoBody {
		return nil, nil
	}
	data, err := io.ReadAll(*body)
	_ = (*body).Close()
	*body = io.NopCloser(bytes.NewReader(data))
	return data, err
}

func truncateBody(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "...[truncated]"
	}
	return string(body)
}

// sanitizeHeaders masks authorization, api-key and token headers.
func sanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string, len(headers))
	for name, values := range headers {
		value := strings.Join(values, ", ")
		lowerName := strings.ToLower(name)
		if strings.Contains(lowerName, "authorization") ||
			strings.Contains(lowerName, "api-key") ||
			strings.Contains(lowerName, "token") {
			if len(value) > 10 {
				value = value[:10] + "***[MASKED]***"
			} else {
				value = "***[MASKED]***"
			}
		}
		sanitized[name] = value
	}
	return sanitized
}
