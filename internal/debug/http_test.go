package debug

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallacegibbon/stopgate/internal/logging"
)

func TestDebugTransportLogsAndRedacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"model":"m"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"hi"}]}`))
	}))
	defer srv.Close()

	logger, observed := logging.NewObserved()
	client := NewHTTPClient(logger)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/messages", strings.NewReader(`{"model":"m"}`))
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", "secret")
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"hi"`, "body must still be readable by the caller")

	reqLogs := observed.FilterMessage("api request").All()
	require.Len(t, reqLogs, 1)
	headers := reqLogs[0].ContextMap()["headers"].(map[string]string)
	assert.Equal(t, "***", headers["X-Api-Key"])
	assert.Equal(t, "***", headers["Authorization"])

	assert.Equal(t, 1, observed.FilterMessage("api response").Len())
}

func TestDebugTransportStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"a\":1}\n\ndata: [DONE]\n"))
	}))
	defer srv.Close()

	logger, observed := logging.NewObserved()
	resp, err := NewHTTPClient(logger).Get(srv.URL)
	require.NoError(t, err)
	_, _ = io.ReadAll(resp.Body)
	resp.Body.Close()

	chunks := observed.FilterMessage("api stream chunk").All()
	require.Len(t, chunks, 1)
	assert.Equal(t, `{"a":1}`, chunks[0].ContextMap()["data"])
}
