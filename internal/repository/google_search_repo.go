package repository

import (
	"context"
	"fmt"

	"market-intel/config"
	"market-intel/internal/dto"
	"market-intel/pkg/httpclient"
	"market-intel/pkg/logger"
)

type SearchRepository interface {
	// TopResult resolves a free-text query to the first ranked hit. No
	// ranking beyond search-engine order is applied.
	TopResult(ctx context.Context, query string) (*dto.GoogleSearchItem, error)
}

type googleSearchRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewGoogleSearchRepository(cfg *config.Config, log *logger.Logger) SearchRepository {
	client := httpclient.NewWithRetry(log, cfg.Google.BaseURL, cfg.Google.Timeout, httpclient.RetryPolicy{
		MaxAttempts: cfg.Google.MaxAttempts,
		WaitTime:    cfg.Google.RetryWait,
	})

	return &googleSearchRepository{
		httpClient: client,
		cfg:        cfg,
		logger:     log,
	}
}

func (r *googleSearchRepository) TopResult(ctx context.Context, query string) (*dto.GoogleSearchItem, error) {
	queryParams := map[string]string{
		"key": r.cfg.Google.APIKey,
		"cx":  r.cfg.Google.SearchEngineID,
		"q":   query,
	}

	var searchResp dto.GoogleSearchResponse
	if _, err := r.httpClient.Get(ctx, "", queryParams, nil, &searchResp); err != nil {
		return nil, fmt.Errorf("custom search request failed: %w", err)
	}

	if len(searchResp.Items) == 0 {
		r.logger.WarnContext(ctx, "Search returned no results", logger.StringField("query", query))
		return nil, nil
	}

	return &searchResp.Items[0], nil
}
