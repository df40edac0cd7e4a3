package service

import (
	"context"
	"fmt"

	"market-intel/config"
	"market-intel/internal/repository"
	"market-intel/pkg/logger"
)

type ScoutService interface {
	// FindAndScrapeOutlook resolves an institution's outlook publication via
	// web search and returns the rendered paragraph text of the top hit.
	// Every failure mode degrades to an empty string: the caller reads empty
	// as "no theme extraction for this institution this run".
	FindAndScrapeOutlook(ctx context.Context, institution string, year int) string
}

type scoutService struct {
	cfg        *config.Config
	log        *logger.Logger
	searchRepo repository.SearchRepository
	renderer   repository.PageRenderer
}

func NewScoutService(cfg *config.Config, log *logger.Logger, searchRepo repository.SearchRepository, renderer repository.PageRenderer) ScoutService {
	return &scoutService{
		cfg:        cfg,
		log:        log,
		searchRepo: searchRepo,
		renderer:   renderer,
	}
}

func (s *scoutService) FindAndScrapeOutlook(ctx context.Context, institution string, year int) string {
	query := fmt.Sprintf("%s investment outlook %d market trends", institution, year)
	s.log.InfoContext(ctx, "Searching for outlook",
		logger.StringField("institution", institution),
		logger.StringField("query", query),
	)

	topHit, err := s.searchRepo.TopResult(ctx, query)
	if err != nil {
		s.log.WarnContext(ctx, "Outlook search failed",
			logger.StringField("institution", institution),
			logger.ErrorField(err),
		)
		return ""
	}
	if topHit == nil {
		return ""
	}

	s.log.InfoContext(ctx, "Scraping outlook page",
		logger.StringField("title", topHit.Title),
		logger.StringField("url", topHit.Link),
	)

	text, err := s.renderer.RenderParagraphs(ctx, topHit.Link)
	if err != nil {
		s.log.WarnContext(ctx, "Could not scrape outlook page",
			logger.StringField("url", topHit.Link),
			logger.ErrorField(err),
		)
		return ""
	}

	return text
}
