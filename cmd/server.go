package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"market-intel/internal/delivery/http"
	"market-intel/internal/repository"
	"market-intel/internal/service"
	"market-intel/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Serve the API and run the pipeline on a schedule",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log, appDep.cache)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services := service.NewService(
		appDep.cfg,
		appDep.log,
		repo,
		appDep.universe,
		appDep.cache,
		appDep.notifier,
	)
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, services)
	apiServer := NewHTTPServer(ctx, appDep, httpHandler)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			return err
		}
		return nil
	})

	var scheduler *cron.Cron
	if schedule := appDep.cfg.Pipeline.Schedule; schedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(schedule, func() {
			if _, err := services.PipelineService.Run(gCtx); err != nil {
				appDep.log.ErrorContextWithAlert(gCtx, "Scheduled pipeline run failed", logger.ErrorField(err))
			}
		})
		if err != nil {
			log.Fatalf("Invalid pipeline schedule %q: %v", schedule, err)
		}
		scheduler.Start()
		appDep.log.Info("Pipeline scheduler started", logger.StringField("schedule", schedule))
	}

	<-gCtx.Done()
	appDep.log.Info("Shutting down gracefully")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	if err := apiServer.Stop(); err != nil {
		log.Printf("Failed to stop HTTP server: %v", err)
	}

	if err := g.Wait(); err != nil {
		log.Printf("Server exited with error: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
