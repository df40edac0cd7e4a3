package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"market-intel/config"
	"market-intel/internal/dto"
	"market-intel/internal/model"
	"market-intel/internal/repository"
	"market-intel/internal/universe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type fakeAIRepo struct {
	themes  map[string][]dto.ThemeCandidate
	matches map[string][]dto.InstrumentMatch
	err     error
}

func (f *fakeAIRepo) ExtractThemes(ctx context.Context, source, rawText string) ([]dto.ThemeCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.themes[source], nil
}

func (f *fakeAIRepo) SelectInstruments(ctx context.Context, theme model.MarketTheme, universeMenu string) ([]dto.InstrumentMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matches[theme.Title], nil
}

type fakePriceHistoryRepo struct {
	points map[string][]model.PricePoint
}

func (f *fakePriceHistoryRepo) History(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	// Fresh copy per call, the insert path assigns IDs to what it is given.
	out := make([]model.PricePoint, len(f.points[symbol]))
	copy(out, f.points[symbol])
	return out, nil
}

type fakeNewsFeedRepo struct {
	articles map[string][]model.NewsArticle
}

func (f *fakeNewsFeedRepo) Headlines(ctx context.Context, symbol string) ([]model.NewsArticle, error) {
	out := make([]model.NewsArticle, len(f.articles[symbol]))
	copy(out, f.articles[symbol])
	return out, nil
}

type fakeScout struct {
	texts map[string]string
}

func (f *fakeScout) FindAndScrapeOutlook(ctx context.Context, institution string, year int) string {
	return f.texts[institution]
}

func pipelineTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func pipelineTestConfig() *config.Config {
	return &config.Config{
		Pipeline: config.Pipeline{
			Institutions:              []string{"Acme Bank"},
			Watchlist:                 []string{"MSFT"},
			OutlookYear:               2026,
			MaxPromptChars:            12000,
			ThemeDedupWindow:          24 * time.Hour,
			RecommendationDedupWindow: 48 * time.Hour,
		},
	}
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func newTestPipeline(t *testing.T, db *gorm.DB, ai *fakeAIRepo, prices *fakePriceHistoryRepo, news *fakeNewsFeedRepo) (PipelineService, *repository.Repository) {
	t.Helper()
	cfg := pipelineTestConfig()
	repo := &repository.Repository{
		ThemeRepo:          repository.NewThemeRepository(db, cfg),
		RecommendationRepo: repository.NewRecommendationRepository(db, cfg),
		PricePointRepo:     repository.NewPricePointRepository(db),
		NewsArticleRepo:    repository.NewNewsArticleRepository(db),
		GeminiAIRepo:       ai,
		PriceHistoryRepo:   prices,
		NewsFeedRepo:       news,
	}
	uni, err := universe.Load()
	require.NoError(t, err)

	scout := &fakeScout{texts: map[string]string{
		"Acme Bank": "The central bank will cut rates through 2026.",
	}}
	return NewPipelineService(cfg, testLogger(t), repo, uni, scout, nil), repo
}

func TestPipelineService_Run(t *testing.T) {
	db := pipelineTestDB(t)
	ai := &fakeAIRepo{
		themes: map[string][]dto.ThemeCandidate{
			"Acme Bank": {{Title: "Rate Cuts", Sentiment: "Bullish", Reason: "Central banks are easing."}},
		},
		matches: map[string][]dto.InstrumentMatch{
			// Lowercase on purpose, validation normalizes to the catalog spelling.
			"Rate Cuts": {{Ticker: "tlt", Reason: "duration wins when yields fall"}},
		},
	}
	prices := &fakePriceHistoryRepo{points: map[string][]model.PricePoint{
		"TLT":  {{Symbol: "TLT", Date: day(5), Close: 93.2, Volume: 1200}, {Symbol: "TLT", Date: day(4), Close: 93.0, Volume: 1100}},
		"MSFT": {{Symbol: "MSFT", Date: day(5), Close: 480.0, Volume: 9000}},
	}}
	news := &fakeNewsFeedRepo{articles: map[string][]model.NewsArticle{
		"MSFT": {{Symbol: "MSFT", Title: "Cloud growth", Description: "d", Source: "Wire", URL: "https://example.com/msft", ExternalID: "msft-1", PublishedAt: day(5)}},
	}}

	pipeline, repo := newTestPipeline(t, db, ai, prices, news)

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ThemesStored)
	assert.Equal(t, 1, summary.RecommendationsStored)
	assert.Equal(t, int64(3), summary.PricePointsInserted)
	assert.Equal(t, int64(1), summary.ArticlesInserted)
	assert.Equal(t, 0, summary.ItemFailures)

	recs, err := repo.RecommendationRepo.GetRecent(context.Background(), day(1))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "TLT", recs[0].Symbol)
	assert.Equal(t, "iShares 20+ Year Treasury", recs[0].CompanyName)
	assert.Equal(t, 93.2, recs[0].Price)
	assert.Equal(t, "Rate Cuts", recs[0].MatchingTheme)
	assert.Equal(t, "Acme Bank says: duration wins when yields fall", recs[0].Reasoning)
	assert.NotEmpty(t, recs[0].RawSelection)

	// A second run inside both dedup windows stores nothing new.
	summary2, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary2.ThemesStored)
	assert.Equal(t, 1, summary2.ThemesSkipped)
	assert.Equal(t, 0, summary2.RecommendationsStored)
	assert.Equal(t, 1, summary2.RecommendationsSkipped)
	assert.Equal(t, int64(0), summary2.PricePointsInserted)
	assert.Equal(t, int64(0), summary2.ArticlesInserted)
}

func TestPipelineService_UnknownTickerIsRejected(t *testing.T) {
	db := pipelineTestDB(t)
	ai := &fakeAIRepo{
		themes: map[string][]dto.ThemeCandidate{
			"Acme Bank": {{Title: "Moonshots", Sentiment: "Bullish", Reason: "r"}},
		},
		matches: map[string][]dto.InstrumentMatch{
			"Moonshots": {{Ticker: "FAKEZ", Reason: "hallucinated"}},
		},
	}
	pipeline, repo := newTestPipeline(t, db, ai, &fakePriceHistoryRepo{}, &fakeNewsFeedRepo{})

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ThemesStored)
	assert.Equal(t, 0, summary.RecommendationsStored)
	assert.GreaterOrEqual(t, summary.ItemFailures, 1)

	recs, err := repo.RecommendationRepo.GetRecent(context.Background(), day(1))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestPipelineService_BearishThemesAreNotMatched(t *testing.T) {
	db := pipelineTestDB(t)
	ai := &fakeAIRepo{
		themes: map[string][]dto.ThemeCandidate{
			"Acme Bank": {{Title: "Credit Stress", Sentiment: "Bearish", Reason: "defaults rising"}},
		},
		matches: map[string][]dto.InstrumentMatch{
			"Credit Stress": {{Ticker: "TLT", Reason: "should never be asked"}},
		},
	}
	pipeline, repo := newTestPipeline(t, db, ai, &fakePriceHistoryRepo{}, &fakeNewsFeedRepo{})

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ThemesStored)
	assert.Equal(t, 0, summary.RecommendationsStored)

	recs, err := repo.RecommendationRepo.GetRecent(context.Background(), day(1))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestPipelineService_EmptyOutlookSkipsInstitution(t *testing.T) {
	db := pipelineTestDB(t)
	cfg := pipelineTestConfig()
	repo := &repository.Repository{
		ThemeRepo:          repository.NewThemeRepository(db, cfg),
		RecommendationRepo: repository.NewRecommendationRepository(db, cfg),
		PricePointRepo:     repository.NewPricePointRepository(db),
		NewsArticleRepo:    repository.NewNewsArticleRepository(db),
		GeminiAIRepo:       &fakeAIRepo{},
		PriceHistoryRepo:   &fakePriceHistoryRepo{},
		NewsFeedRepo:       &fakeNewsFeedRepo{},
	}
	uni, err := universe.Load()
	require.NoError(t, err)

	pipeline := NewPipelineService(cfg, testLogger(t), repo, uni, &fakeScout{}, nil)

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ThemesStored)
	assert.Equal(t, 0, summary.ItemFailures)
}
