package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"market-intel/pkg/apperrors"
	"market-intel/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func TestRestyClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bar", r.URL.Query().Get("foo"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := New(testLogger(t), server.URL, 5*time.Second, "")

	var result struct {
		Status string `json:"status"`
	}
	resp, err := client.Get(context.Background(), "/", map[string]string{"foo": "bar"}, map[string]string{"X-Api-Key": "secret"}, &result)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", result.Status)
}

func TestRestyClient_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewWithRetry(testLogger(t), server.URL, 5*time.Second, RetryPolicy{
		MaxAttempts: 3,
		WaitTime:    10 * time.Millisecond,
	})

	var result struct {
		Status string `json:"status"`
	}
	resp, err := client.Get(context.Background(), "/", nil, nil, &result)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRestyClient_ExhaustedRetriesAreUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewWithRetry(testLogger(t), server.URL, 5*time.Second, RetryPolicy{
		MaxAttempts: 3,
		WaitTime:    10 * time.Millisecond,
	})

	_, err := client.Get(context.Background(), "/", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRestyClient_TransportErrorIsUnavailable(t *testing.T) {
	client := New(testLogger(t), "http://127.0.0.1:1", time.Second, "")

	_, err := client.Get(context.Background(), "/", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}
