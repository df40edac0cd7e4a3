package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"market-intel/config"
	"market-intel/internal/model"
	"market-intel/pkg/apperrors"
	"market-intel/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test, shared across the pool's
	// connections but invisible to other tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.MarketTheme{},
		&model.Recommendation{},
		&model.PricePoint{},
		&model.NewsArticle{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.Pipeline{
			ThemeDedupWindow:          24 * time.Hour,
			RecommendationDedupWindow: 48 * time.Hour,
		},
	}
}

func TestThemeRepository_InsertDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThemeRepository(db, testConfig())
	ctx := context.Background()

	theme := &model.MarketTheme{
		Source:    "Acme Bank",
		Title:     "Rate Cuts",
		Sentiment: model.SentimentBullish,
		Reasoning: "Central banks are easing.",
	}
	require.NoError(t, repo.Insert(ctx, theme))
	assert.NotEmpty(t, theme.DedupKey)

	// Same source and title inside the window is a skip, not an error.
	dup := &model.MarketTheme{
		Source:    "Acme Bank",
		Title:     "Rate Cuts",
		Sentiment: model.SentimentBullish,
		Reasoning: "Still easing.",
	}
	err := repo.Insert(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSkip)

	var count int64
	require.NoError(t, db.Model(&model.MarketTheme{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestThemeRepository_InsertAfterWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThemeRepository(db, testConfig())
	ctx := context.Background()

	old := &model.MarketTheme{
		Source:     "Acme Bank",
		Title:      "Rate Cuts",
		Sentiment:  model.SentimentBullish,
		Reasoning:  "First sighting.",
		RecordedAt: utils.TimeNowUTC().Add(-25 * time.Hour),
	}
	require.NoError(t, repo.Insert(ctx, old))

	fresh := &model.MarketTheme{
		Source:    "Acme Bank",
		Title:     "Rate Cuts",
		Sentiment: model.SentimentBullish,
		Reasoning: "Seen again a day later.",
	}
	require.NoError(t, repo.Insert(ctx, fresh))

	var count int64
	require.NoError(t, db.Model(&model.MarketTheme{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestThemeRepository_SameTitleDifferentSource(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThemeRepository(db, testConfig())
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &model.MarketTheme{
		Source: "Acme Bank", Title: "AI Buildout", Sentiment: model.SentimentBullish, Reasoning: "a",
	}))
	require.NoError(t, repo.Insert(ctx, &model.MarketTheme{
		Source: "Globex", Title: "AI Buildout", Sentiment: model.SentimentBullish, Reasoning: "b",
	}))

	var count int64
	require.NoError(t, db.Model(&model.MarketTheme{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestThemeRepository_GetRecentBySentiment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThemeRepository(db, testConfig())
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &model.MarketTheme{
		Source: "Acme Bank", Title: "Rate Cuts", Sentiment: model.SentimentBullish, Reasoning: "a",
	}))
	require.NoError(t, repo.Insert(ctx, &model.MarketTheme{
		Source: "Acme Bank", Title: "Credit Stress", Sentiment: model.SentimentBearish, Reasoning: "b",
	}))
	require.NoError(t, repo.Insert(ctx, &model.MarketTheme{
		Source: "Globex", Title: "Stale Theme", Sentiment: model.SentimentBullish, Reasoning: "c",
		RecordedAt: utils.TimeNowUTC().Add(-30 * time.Hour),
	}))

	since := utils.TimeNowUTC().Add(-24 * time.Hour)
	themes, err := repo.GetRecentBySentiment(ctx, model.SentimentBullish, since)
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, "Rate Cuts", themes[0].Title)
}

func TestRecommendationRepository_InsertDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecommendationRepository(db, testConfig())
	ctx := context.Background()

	rec := &model.Recommendation{
		Symbol:        "TLT",
		CompanyName:   "iShares 20+ Year Treasury Bond ETF",
		Price:         92.5,
		MatchingTheme: "Rate Cuts",
		Reasoning:     "Acme Bank says: duration wins when yields fall",
	}
	require.NoError(t, repo.Insert(ctx, rec))

	dup := &model.Recommendation{
		Symbol:        "TLT",
		CompanyName:   "iShares 20+ Year Treasury Bond ETF",
		Price:         93.1,
		MatchingTheme: "Rate Cuts",
		Reasoning:     "same pairing again",
	}
	assert.ErrorIs(t, repo.Insert(ctx, dup), apperrors.ErrDuplicateSkip)

	// Same symbol under a different theme is a distinct recommendation.
	other := &model.Recommendation{
		Symbol:        "TLT",
		CompanyName:   "iShares 20+ Year Treasury Bond ETF",
		Price:         92.5,
		MatchingTheme: "Flight to Safety",
		Reasoning:     "different theme",
	}
	require.NoError(t, repo.Insert(ctx, other))

	var count int64
	require.NoError(t, db.Model(&model.Recommendation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRecommendationRepository_InsertAfterWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecommendationRepository(db, testConfig())
	ctx := context.Background()

	old := &model.Recommendation{
		Symbol:        "SMH",
		CompanyName:   "VanEck Semiconductor ETF",
		MatchingTheme: "AI Buildout",
		Reasoning:     "first",
		GeneratedAt:   utils.TimeNowUTC().Add(-49 * time.Hour),
	}
	require.NoError(t, repo.Insert(ctx, old))

	fresh := &model.Recommendation{
		Symbol:        "SMH",
		CompanyName:   "VanEck Semiconductor ETF",
		MatchingTheme: "AI Buildout",
		Reasoning:     "second, window elapsed",
	}
	require.NoError(t, repo.Insert(ctx, fresh))

	var count int64
	require.NoError(t, db.Model(&model.Recommendation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPricePointRepository_InsertBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPricePointRepository(db)
	ctx := context.Background()

	day := func(d int) time.Time {
		return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
	}
	first := []model.PricePoint{
		{Symbol: "TLT", Date: day(2), Close: 92.5, Volume: 1000},
		{Symbol: "TLT", Date: day(1), Close: 92.1, Volume: 900},
	}
	inserted, err := repo.InsertBatch(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	// Overlapping batch only lands the new date.
	second := []model.PricePoint{
		{Symbol: "TLT", Date: day(3), Close: 93.0, Volume: 1100},
		{Symbol: "TLT", Date: day(2), Close: 92.5, Volume: 1000},
	}
	inserted, err = repo.InsertBatch(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	inserted, err = repo.InsertBatch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)

	history, err := repo.GetHistory(ctx, "TLT", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, day(3), history[0].Date.UTC())
	assert.Equal(t, day(2), history[1].Date.UTC())
}

func TestNewsArticleRepository_InsertBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNewsArticleRepository(db)
	ctx := context.Background()

	articles := []model.NewsArticle{
		{Symbol: "NVDA", Title: "Chips up", Description: "d", Source: "Wire", URL: "https://example.com/a", ExternalID: "aaa", PublishedAt: utils.TimeNowUTC()},
		{Symbol: "NVDA", Title: "Chips down", Description: "d", Source: "Wire", URL: "https://example.com/b", ExternalID: "bbb", PublishedAt: utils.TimeNowUTC()},
	}
	inserted, err := repo.InsertBatch(ctx, articles)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	// Re-ingesting the same feed is a no-op.
	inserted, err = repo.InsertBatch(ctx, articles)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)

	got, err := repo.GetBySymbol(ctx, "NVDA", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
