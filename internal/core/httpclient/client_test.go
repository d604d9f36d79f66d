package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLoggingRoundTripper verifies that requests are logged.
func TestLoggingRoundTripper(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	core, logs := observer.New(zapcore.DebugLevel)

	client := NewClient(1*time.Second, zap.New(core))
	resp, err := client.Post(ts.URL+"/hooks/reports", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	completed := logs.FilterMessage("HTTP Request Completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(http.StatusAccepted), completed[0].ContextMap()["status_code"])
	assert.Equal(t, "POST", completed[0].ContextMap()["method"])
}

// TestLoggingRoundTripper_Error verifies that failed requests are logged.
func TestLoggingRoundTripper_Error(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	client := NewClient(1*time.Second, zap.New(core))
	_, err := client.Get("http://invalid-url-that-does-not-exist.local")
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("HTTP Request Failed").Len())
}

// TestNewClient_NilLogger verifies that a nil logger is accepted.
func TestNewClient_NilLogger(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(time.Second, nil)
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
