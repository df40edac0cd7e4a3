package httpclient

import (
	"context"
	"net/http"
	"time"
)

type BaseResponse struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// RetryPolicy bounds retries against a flaky provider. A zero policy means a
// single attempt. WaitTime is the inter-attempt backoff; with Exponential set
// the wait doubles per attempt up to MaxWaitTime.
type RetryPolicy struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
	Exponential bool
}

type HTTPClient interface {
	Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error)
	Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*BaseResponse, error)
}
