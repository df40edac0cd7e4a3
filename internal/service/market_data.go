package service

import (
	"context"
	"fmt"
	"time"

	"market-intel/config"
	"market-intel/internal/model"
	"market-intel/internal/repository"
	"market-intel/pkg/cache"
	"market-intel/pkg/common"
	"market-intel/pkg/logger"
	"market-intel/pkg/utils"
)

// MarketDataService is the read side backing the HTTP API. List responses
// are cached briefly so a dashboard polling the API does not hammer the
// database between pipeline runs.
type MarketDataService interface {
	RecentThemes(ctx context.Context) ([]model.MarketTheme, error)
	RecentRecommendations(ctx context.Context) ([]model.Recommendation, error)
	PriceHistory(ctx context.Context, symbol string, limit int) ([]model.PricePoint, error)
	News(ctx context.Context, symbol string, limit int) ([]model.NewsArticle, error)
}

type marketDataService struct {
	cfg   *config.Config
	log   *logger.Logger
	repo  *repository.Repository
	cache cache.Cache
}

func NewMarketDataService(cfg *config.Config, log *logger.Logger, repo *repository.Repository, inmemoryCache cache.Cache) MarketDataService {
	return &marketDataService{
		cfg:   cfg,
		log:   log,
		repo:  repo,
		cache: inmemoryCache,
	}
}

func (s *marketDataService) RecentThemes(ctx context.Context) ([]model.MarketTheme, error) {
	if cached, ok := s.cache.Get(common.KEY_API_THEMES); ok {
		if themes, ok := cached.([]model.MarketTheme); ok {
			return themes, nil
		}
	}

	since := utils.TimeNowUTC().Add(-s.cfg.Pipeline.ThemeDedupWindow)
	themes, err := s.repo.ThemeRepo.GetRecent(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load recent themes: %w", err)
	}

	s.cache.Set(common.KEY_API_THEMES, themes, time.Minute)
	return themes, nil
}

func (s *marketDataService) RecentRecommendations(ctx context.Context) ([]model.Recommendation, error) {
	if cached, ok := s.cache.Get(common.KEY_API_RECS); ok {
		if recs, ok := cached.([]model.Recommendation); ok {
			return recs, nil
		}
	}

	since := utils.TimeNowUTC().Add(-s.cfg.Pipeline.RecommendationDedupWindow)
	recs, err := s.repo.RecommendationRepo.GetRecent(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load recent recommendations: %w", err)
	}

	s.cache.Set(common.KEY_API_RECS, recs, time.Minute)
	return recs, nil
}

func (s *marketDataService) PriceHistory(ctx context.Context, symbol string, limit int) ([]model.PricePoint, error) {
	if limit <= 0 {
		limit = s.cfg.AlphaVantage.HistoryLimit
	}
	points, err := s.repo.PricePointRepo.GetHistory(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("load price history for %s: %w", symbol, err)
	}
	return points, nil
}

func (s *marketDataService) News(ctx context.Context, symbol string, limit int) ([]model.NewsArticle, error) {
	if limit <= 0 {
		limit = s.cfg.NewsAPI.MaxArticles
	}
	articles, err := s.repo.NewsArticleRepo.GetBySymbol(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("load news for %s: %w", symbol, err)
	}
	return articles, nil
}
