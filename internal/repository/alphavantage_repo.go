package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"market-intel/config"
	"market-intel/internal/dto"
	"market-intel/internal/model"
	"market-intel/pkg/cache"
	"market-intel/pkg/common"
	"market-intel/pkg/httpclient"
	"market-intel/pkg/logger"
	"market-intel/pkg/ratelimit"

	"golang.org/x/time/rate"
)

type PriceHistoryRepository interface {
	// History returns the most recent daily closes for symbol, newest first,
	// bounded by the configured history limit. A missing series in the
	// provider response (quota hit or unknown symbol) yields an empty slice,
	// not an error.
	History(ctx context.Context, symbol string) ([]model.PricePoint, error)
}

type alphaVantageRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	cache          cache.Cache
}

func NewAlphaVantageRepository(cfg *config.Config, log *logger.Logger, limiters *ratelimit.ProviderStore, inmemoryCache cache.Cache) PriceHistoryRepository {
	client := httpclient.NewWithRetry(log, cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.Timeout, httpclient.RetryPolicy{
		MaxAttempts: cfg.AlphaVantage.MaxAttempts,
		WaitTime:    cfg.AlphaVantage.RetryWait,
	})

	return &alphaVantageRepository{
		httpClient:     client,
		cfg:            cfg,
		logger:         log,
		requestLimiter: limiters.Get(common.PROVIDER_ALPHAVANTAGE),
		cache:          inmemoryCache,
	}
}

func (r *alphaVantageRepository) History(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	cacheKey := fmt.Sprintf(common.KEY_PRICE_HISTORY, symbol)
	if cached, found := r.cache.Get(cacheKey); found {
		if points, ok := cached.([]model.PricePoint); ok {
			// Callers hand these structs to gorm, which back-fills primary
			// keys into whatever it inserts. Hand out a copy so the cached
			// rows stay pristine and a later re-insert dedups on
			// (symbol, date) instead of colliding on stale ids.
			return clonePricePoints(points), nil
		}
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for alphavantage request limit: %w", err)
	}

	queryParams := map[string]string{
		"function": "TIME_SERIES_DAILY",
		"symbol":   symbol,
		"apikey":   r.cfg.AlphaVantage.APIKey,
	}

	var avResp dto.AlphaVantageDailyResponse
	if _, err := r.httpClient.Get(ctx, "/query", queryParams, nil, &avResp); err != nil {
		return nil, fmt.Errorf("alphavantage request for %s failed: %w", symbol, err)
	}

	if len(avResp.TimeSeries) == 0 {
		r.logger.WarnContext(ctx, "No daily series in response, quota reached or unknown symbol",
			logger.StringField("symbol", symbol))
		return nil, nil
	}

	dates := make([]string, 0, len(avResp.TimeSeries))
	for date := range avResp.TimeSeries {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	limit := r.cfg.AlphaVantage.HistoryLimit
	points := make([]model.PricePoint, 0, limit)
	for _, date := range dates {
		if len(points) >= limit {
			break
		}

		entry := avResp.TimeSeries[date]
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping malformed series date",
				logger.StringField("symbol", symbol),
				logger.StringField("date", date))
			continue
		}
		closePrice, err := strconv.ParseFloat(entry.Close, 64)
		if err != nil {
			continue
		}
		volume, err := strconv.ParseInt(entry.Volume, 10, 64)
		if err != nil {
			continue
		}

		points = append(points, model.PricePoint{
			Symbol: symbol,
			Date:   day,
			Close:  closePrice,
			Volume: volume,
		})
	}

	r.cache.Set(cacheKey, clonePricePoints(points), r.cfg.Cache.DefaultExpiration)

	return points, nil
}

func clonePricePoints(points []model.PricePoint) []model.PricePoint {
	out := make([]model.PricePoint, len(points))
	copy(out, points)
	return out
}
