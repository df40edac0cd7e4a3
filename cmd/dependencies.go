package cmd

import (
	"context"

	"market-intel/config"
	"market-intel/internal/service"
	"market-intel/internal/universe"
	"market-intel/pkg/cache"
	"market-intel/pkg/logger"
	"market-intel/pkg/postgres"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	universe  *universe.Universe
	notifier  service.Notifier
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding,
		logger.WithTelegramAlerts(cfg.Telegram.BotToken, cfg.Telegram.ChatID),
	)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.ErrorField(err))
		return nil, err
	}

	uni, err := universe.Load()
	if err != nil {
		log.Error("Failed to load instrument universe", logger.ErrorField(err))
		return nil, err
	}

	// Telegram being down must not keep the pipeline from running; only the
	// store is allowed to be fatal at startup.
	notifier, err := service.NewTelegramNotifier(&cfg.Telegram, log)
	if err != nil {
		log.Warn("Telegram notifier disabled", logger.ErrorField(err))
		notifier = nil
	}

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      echo.New(),
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		universe:  uni,
		notifier:  notifier,
	}, nil
}

func (a *AppDependency) Close() error {
	if err := a.db.Close(); err != nil {
		return err
	}
	_ = a.log.Sync()
	return nil
}
