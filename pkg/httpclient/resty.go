package httpclient

import (
	"context"
	"fmt"
	"time"

	"market-intel/pkg/apperrors"
	"market-intel/pkg/logger"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
	log    *logger.Logger
}

func New(log *logger.Logger, baseURL string, timeout time.Duration, bearerToken string) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetAuthToken(bearerToken)

	return &RestyClient{client: client, log: log}
}

// NewWithRetry builds a client that retries on transport errors and non-2xx
// responses until the policy's attempt budget is spent. Exhaustion surfaces as
// apperrors.ErrUnavailable, never as a panic or a raw transport error.
func NewWithRetry(log *logger.Logger, baseURL string, timeout time.Duration, policy RetryPolicy) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	if policy.MaxAttempts > 1 {
		waitTime := policy.WaitTime
		maxWait := policy.MaxWaitTime
		if !policy.Exponential || maxWait < waitTime {
			// resty backs off between wait and max wait; pinning them
			// together gives a fixed delay.
			maxWait = waitTime
		}
		client.
			SetRetryCount(policy.MaxAttempts - 1).
			SetRetryWaitTime(waitTime).
			SetRetryMaxWaitTime(maxWait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.IsError()
			})
	}

	return &RestyClient{client: client, log: log}
}

// GET request with optional query params
func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().SetContext(ctx).SetResult(result)

	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}

	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(endpoint)
	return rc.wrap(resp, err)
}

// POST request with body
func (rc *RestyClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result)

	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Post(endpoint)
	return rc.wrap(resp, err)
}

func (rc *RestyClient) wrap(resp *resty.Response, err error) (*BaseResponse, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}

	base := &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}

	if resp.IsError() {
		return base, fmt.Errorf("%w: status %d", apperrors.ErrUnavailable, resp.StatusCode())
	}

	return base, nil
}
