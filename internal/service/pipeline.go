package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"market-intel/config"
	"market-intel/internal/model"
	"market-intel/internal/repository"
	"market-intel/internal/universe"
	"market-intel/pkg/apperrors"
	"market-intel/pkg/logger"
	"market-intel/pkg/utils"
)

// RunSummary counts what a pipeline run produced. Skips are dedup hits,
// not failures.
type RunSummary struct {
	ThemesStored           int
	ThemesSkipped          int
	RecommendationsStored  int
	RecommendationsSkipped int
	PricePointsInserted    int64
	ArticlesInserted       int64
	ItemFailures           int
}

func (s *RunSummary) String() string {
	return fmt.Sprintf("themes=%d (skipped %d) recommendations=%d (skipped %d) price_points=%d articles=%d failures=%d",
		s.ThemesStored, s.ThemesSkipped,
		s.RecommendationsStored, s.RecommendationsSkipped,
		s.PricePointsInserted, s.ArticlesInserted, s.ItemFailures)
}

type PipelineService interface {
	// Run executes the macro, matchmaking and watchlist stages once, in
	// order. A failing item never aborts the run; Run only returns an error
	// when a whole stage cannot start.
	Run(ctx context.Context) (*RunSummary, error)
}

type pipelineService struct {
	cfg      *config.Config
	log      *logger.Logger
	repo     *repository.Repository
	universe *universe.Universe
	scout    ScoutService
	notifier Notifier
}

func NewPipelineService(cfg *config.Config, log *logger.Logger, repo *repository.Repository, uni *universe.Universe, scout ScoutService, notifier Notifier) PipelineService {
	return &pipelineService{
		cfg:      cfg,
		log:      log,
		repo:     repo,
		universe: uni,
		scout:    scout,
		notifier: notifier,
	}
}

func (p *pipelineService) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{}

	p.log.InfoContext(ctx, "Market intelligence run starting",
		logger.IntField("institutions", len(p.cfg.Pipeline.Institutions)),
		logger.IntField("watchlist", len(p.cfg.Pipeline.Watchlist)),
	)

	p.runMacroStage(ctx, summary)
	if err := p.runMatchmakingStage(ctx, summary); err != nil {
		return summary, err
	}
	p.runWatchlistStage(ctx, summary)

	p.log.InfoContext(ctx, "Market intelligence run complete",
		logger.StringField("summary", summary.String()),
	)

	if p.notifier != nil {
		if err := p.notifier.SendRunSummary(ctx, summary); err != nil {
			p.log.WarnContext(ctx, "Failed to send run summary", logger.ErrorField(err))
		}
	}

	return summary, nil
}

// runMacroStage harvests themes from each institution's outlook page. An
// institution that cannot be scouted or parsed is logged and skipped.
func (p *pipelineService) runMacroStage(ctx context.Context, summary *RunSummary) {
	for _, institution := range p.cfg.Pipeline.Institutions {
		text := p.scout.FindAndScrapeOutlook(ctx, institution, p.cfg.Pipeline.OutlookYear)
		if strings.TrimSpace(text) == "" {
			p.log.InfoContext(ctx, "No outlook text, skipping institution",
				logger.StringField("institution", institution),
			)
			continue
		}

		candidates, err := p.repo.GeminiAIRepo.ExtractThemes(ctx, institution, text)
		if err != nil {
			summary.ItemFailures++
			if errors.Is(err, apperrors.ErrParseFailure) {
				p.log.WarnContext(ctx, "Theme extraction returned unparseable output",
					logger.StringField("institution", institution),
					logger.ErrorField(err),
				)
			} else {
				p.log.ErrorContext(ctx, "Theme extraction failed",
					logger.StringField("institution", institution),
					logger.ErrorField(err),
				)
			}
			continue
		}

		for _, candidate := range candidates {
			if strings.TrimSpace(candidate.Title) == "" {
				continue
			}
			theme := &model.MarketTheme{
				Source:    institution,
				Title:     candidate.Title,
				Sentiment: candidate.Sentiment,
				Reasoning: candidate.Reason,
			}
			err := p.repo.ThemeRepo.Insert(ctx, theme)
			switch {
			case errors.Is(err, apperrors.ErrDuplicateSkip):
				summary.ThemesSkipped++
				p.log.DebugContext(ctx, "Theme already recorded, skipping",
					logger.StringField("institution", institution),
					logger.StringField("title", candidate.Title),
				)
			case err != nil:
				summary.ItemFailures++
				p.log.ErrorContext(ctx, "Failed to persist theme",
					logger.StringField("title", candidate.Title),
					logger.ErrorField(err),
				)
			default:
				summary.ThemesStored++
				p.log.InfoContext(ctx, "Theme recorded",
					logger.StringField("institution", institution),
					logger.StringField("title", candidate.Title),
					logger.StringField("sentiment", candidate.Sentiment),
				)
			}
		}
	}
}

// runMatchmakingStage turns recent bullish themes into instrument
// recommendations with an attached price snapshot.
func (p *pipelineService) runMatchmakingStage(ctx context.Context, summary *RunSummary) error {
	since := utils.TimeNowUTC().Add(-p.cfg.Pipeline.ThemeDedupWindow)
	themes, err := p.repo.ThemeRepo.GetRecentBySentiment(ctx, model.SentimentBullish, since)
	if err != nil {
		return fmt.Errorf("load recent themes: %w", err)
	}
	if len(themes) == 0 {
		p.log.InfoContext(ctx, "No recent bullish themes, skipping instrument selection")
		return nil
	}

	menu := p.universe.Menu()
	for _, theme := range themes {
		matches, err := p.repo.GeminiAIRepo.SelectInstruments(ctx, theme, menu)
		if err != nil {
			summary.ItemFailures++
			p.log.WarnContext(ctx, "Instrument selection failed",
				logger.StringField("theme", theme.Title),
				logger.ErrorField(err),
			)
			continue
		}
		if len(matches) == 0 {
			p.log.InfoContext(ctx, "No instruments matched theme",
				logger.StringField("theme", theme.Title),
			)
			continue
		}
		if len(matches) > 2 {
			matches = matches[:2]
		}

		for _, match := range matches {
			entry, ok := p.universe.Lookup(match.Ticker)
			if !ok {
				summary.ItemFailures++
				p.log.WarnContext(ctx, "Model proposed a ticker outside the universe",
					logger.StringField("theme", theme.Title),
					logger.StringField("ticker", match.Ticker),
					logger.ErrorField(fmt.Errorf("%w: unknown ticker %q", apperrors.ErrValidationFailure, match.Ticker)),
				)
				continue
			}

			price := 0.0
			history, err := p.repo.PriceHistoryRepo.History(ctx, entry.Ticker)
			if err != nil {
				p.log.WarnContext(ctx, "Price history unavailable",
					logger.StringField("symbol", entry.Ticker),
					logger.ErrorField(err),
				)
			} else if len(history) > 0 {
				price = history[0].Close
				inserted, err := p.repo.PricePointRepo.InsertBatch(ctx, history)
				if err != nil {
					summary.ItemFailures++
					p.log.ErrorContext(ctx, "Failed to persist price history",
						logger.StringField("symbol", entry.Ticker),
						logger.ErrorField(err),
					)
				} else {
					summary.PricePointsInserted += inserted
				}
			}

			rawSelection, _ := json.Marshal(match)
			rec := &model.Recommendation{
				Symbol:        entry.Ticker,
				CompanyName:   entry.Name,
				Price:         price,
				MatchingTheme: theme.Title,
				Reasoning:     fmt.Sprintf("%s says: %s", theme.Source, match.Reason),
				RawSelection:  rawSelection,
			}
			err = p.repo.RecommendationRepo.Insert(ctx, rec)
			switch {
			case errors.Is(err, apperrors.ErrDuplicateSkip):
				summary.RecommendationsSkipped++
				p.log.DebugContext(ctx, "Recommendation already recorded, skipping",
					logger.StringField("symbol", entry.Ticker),
					logger.StringField("theme", theme.Title),
				)
			case err != nil:
				summary.ItemFailures++
				p.log.ErrorContext(ctx, "Failed to persist recommendation",
					logger.StringField("symbol", entry.Ticker),
					logger.ErrorField(err),
				)
			default:
				summary.RecommendationsStored++
				p.log.InfoContext(ctx, "Recommendation recorded",
					logger.StringField("symbol", entry.Ticker),
					logger.StringField("theme", theme.Title),
					logger.Field("price", price),
				)
			}
		}
	}

	return nil
}

// runWatchlistStage refreshes prices and headlines for the fixed watchlist.
func (p *pipelineService) runWatchlistStage(ctx context.Context, summary *RunSummary) {
	for _, symbol := range p.cfg.Pipeline.Watchlist {
		history, err := p.repo.PriceHistoryRepo.History(ctx, symbol)
		if err != nil {
			summary.ItemFailures++
			p.log.WarnContext(ctx, "Watchlist price fetch failed",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err),
			)
		} else if len(history) > 0 {
			inserted, err := p.repo.PricePointRepo.InsertBatch(ctx, history)
			if err != nil {
				summary.ItemFailures++
				p.log.ErrorContext(ctx, "Failed to persist watchlist prices",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err),
				)
			} else {
				summary.PricePointsInserted += inserted
			}
		}

		articles, err := p.repo.NewsFeedRepo.Headlines(ctx, symbol)
		if err != nil {
			summary.ItemFailures++
			p.log.WarnContext(ctx, "Watchlist news fetch failed",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err),
			)
			continue
		}
		inserted, err := p.repo.NewsArticleRepo.InsertBatch(ctx, articles)
		if err != nil {
			summary.ItemFailures++
			p.log.ErrorContext(ctx, "Failed to persist watchlist news",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err),
			)
			continue
		}
		summary.ArticlesInserted += inserted
	}
}
