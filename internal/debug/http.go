package debug

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// redactedHeaders never reach the log
var redactedHeaders = map[string]bool{
	"Authorization": true,
	"X-Api-Key":     true,
}

// DebugTransport wraps an http.RoundTripper and logs requests and responses
type DebugTransport struct {
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// debugReader logs each line of a streamed response body as it is read
type debugReader struct {
	reader io.Reader
	logger *zap.Logger
}

func (dr *debugReader) Read(p []byte) (n int, err error) {
	n, err = dr.reader.Read(p)
	if n > 0 {
		for _, line := range strings.Split(string(p[:n]), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || line == "data: [DONE]" {
				continue
			}
			dr.logger.Debug("api stream chunk", zap.String("data", strings.TrimPrefix(line, "data: ")))
		}
	}
	return n, err
}

// RoundTrip implements the http.RoundTripper interface
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Any("headers", headerMap(req.Header)),
	}
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
		fields = append(fields, zap.String("body", formatBody(body)))
	}
	logger.Debug("api request", fields...)

	start := time.Now()
	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		logger.Debug("api request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, err
	}

	fields = []zap.Field{
		zap.String("status", resp.Status),
		zap.Any("headers", headerMap(resp.Header)),
		zap.Duration("elapsed", time.Since(start)),
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		logger.Debug("api response stream", fields...)
		resp.Body = struct {
			io.Reader
			io.Closer
		}{
			Reader: &debugReader{reader: resp.Body, logger: logger},
			Closer: resp.Body,
		}
		return resp, nil
	}

	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	fields = append(fields, zap.String("body", formatBody(body)))
	logger.Debug("api response", fields...)

	return resp, nil
}

func headerMap(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for k, v := range h {
		if redactedHeaders[http.CanonicalHeaderKey(k)] {
			m[k] = "***"
			continue
		}
		m[k] = strings.Join(v, ", ")
	}
	return m
}

// formatBody indents JSON bodies and passes anything else through
func formatBody(body []byte) string {
	var v any
	if json.Unmarshal(body, &v) != nil {
		return string(body)
	}
	formatted, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(formatted)
}

// NewHTTPClient creates an HTTP client that logs API traffic at debug level
func NewHTTPClient(logger *zap.Logger) *http.Client {
	return &http.Client{
		Transport: &DebugTransport{
			Transport: http.DefaultTransport,
			Logger:    logger,
		},
	}
}
