package repository

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"market-intel/config"
	"market-intel/internal/dto"
	"market-intel/internal/model"
	"market-intel/pkg/httpclient"
	"market-intel/pkg/logger"
	"market-intel/pkg/utils"
)

type NewsFeedRepository interface {
	// Headlines fetches the latest articles mentioning symbol, bounded by
	// the configured article limit and age.
	Headlines(ctx context.Context, symbol string) ([]model.NewsArticle, error)
}

type newsAPIRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	return &newsAPIRepository{
		httpClient: httpclient.New(log, cfg.NewsAPI.BaseURL, cfg.NewsAPI.Timeout, ""),
		cfg:        cfg,
		logger:     log,
	}
}

func (r *newsAPIRepository) Headlines(ctx context.Context, symbol string) ([]model.NewsArticle, error) {
	from := utils.TimeNowUTC().AddDate(0, 0, -r.cfg.NewsAPI.MaxAgeDays)

	queryParams := map[string]string{
		"q":        symbol,
		"from":     from.Format("2006-01-02"),
		"sortBy":   "publishedAt",
		"language": "en",
	}
	headers := map[string]string{
		"X-Api-Key": r.cfg.NewsAPI.APIKey,
	}

	var newsResp dto.NewsAPIEverythingResponse
	if _, err := r.httpClient.Get(ctx, "/everything", queryParams, headers, &newsResp); err != nil {
		return nil, fmt.Errorf("newsapi request for %s failed: %w", symbol, err)
	}

	if newsResp.Status != "ok" {
		return nil, fmt.Errorf("newsapi returned status %q for %s", newsResp.Status, symbol)
	}

	articles := make([]model.NewsArticle, 0, r.cfg.NewsAPI.MaxArticles)
	for _, a := range newsResp.Articles {
		if len(articles) >= r.cfg.NewsAPI.MaxArticles {
			break
		}
		if a.Title == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			publishedAt = utils.TimeNowUTC()
		}

		tags, _ := json.Marshal([]string{symbol})

		articles = append(articles, model.NewsArticle{
			Symbol:      symbol,
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			ExternalID:  externalID(a.URL),
			Tags:        tags,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

// externalID derives a stable id from the article URL so repeated feed pulls
// dedup at the storage layer.
func externalID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum)[:16]
}
