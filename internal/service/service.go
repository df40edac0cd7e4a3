package service

import (
	"market-intel/config"
	"market-intel/internal/repository"
	"market-intel/internal/universe"
	"market-intel/pkg/cache"
	"market-intel/pkg/logger"
)

type Service struct {
	ScoutService      ScoutService
	PipelineService   PipelineService
	MarketDataService MarketDataService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	uni *universe.Universe,
	inmemoryCache cache.Cache,
	notifier Notifier,
) *Service {
	scoutService := NewScoutService(cfg, log, repo.SearchRepo, repo.PageRenderer)
	pipelineService := NewPipelineService(cfg, log, repo, uni, scoutService, notifier)
	marketDataService := NewMarketDataService(cfg, log, repo, inmemoryCache)

	return &Service{
		ScoutService:      scoutService,
		PipelineService:   pipelineService,
		MarketDataService: marketDataService,
	}
}
