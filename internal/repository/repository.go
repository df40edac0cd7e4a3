package repository

import (
	"market-intel/config"
	"market-intel/pkg/cache"
	"market-intel/pkg/common"
	"market-intel/pkg/logger"
	"market-intel/pkg/ratelimit"

	"gorm.io/gorm"
)

type Repository struct {
	ThemeRepo          ThemeRepository
	RecommendationRepo RecommendationRepository
	PricePointRepo     PricePointRepository
	NewsArticleRepo    NewsArticleRepository
	SearchRepo         SearchRepository
	PageRenderer       PageRenderer
	GeminiAIRepo       AIRepository
	PriceHistoryRepo   PriceHistoryRepository
	NewsFeedRepo       NewsFeedRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger, inmemoryCache cache.Cache) (*Repository, error) {
	limiters := ratelimit.NewProviderStore()
	limiters.Register(common.PROVIDER_GEMINI, cfg.Gemini.MaxRequestPerMinute)
	limiters.Register(common.PROVIDER_ALPHAVANTAGE, cfg.AlphaVantage.MaxRequestPerMinute)

	geminiAIRepo, err := NewGeminiAIRepository(cfg, log, limiters)
	if err != nil {
		return nil, err
	}

	return &Repository{
		ThemeRepo:          NewThemeRepository(db, cfg),
		RecommendationRepo: NewRecommendationRepository(db, cfg),
		PricePointRepo:     NewPricePointRepository(db),
		NewsArticleRepo:    NewNewsArticleRepository(db),
		SearchRepo:         NewGoogleSearchRepository(cfg, log),
		PageRenderer:       NewChromedpRenderer(cfg, log),
		GeminiAIRepo:       geminiAIRepo,
		PriceHistoryRepo:   NewAlphaVantageRepository(cfg, log, limiters, inmemoryCache),
		NewsFeedRepo:       NewNewsAPIRepository(cfg, log),
	}, nil
}
