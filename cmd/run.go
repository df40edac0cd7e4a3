package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"market-intel/internal/repository"
	"market-intel/internal/service"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline run and exit",
	Run:   RunOnce,
}

func RunOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer func() {
		if err := appDep.Close(); err != nil {
			log.Printf("Failed to close app dependency: %v", err)
		}
	}()

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

	if _, err := services.PipelineService.Run(ctx); err != nil {
		log.Fatalf("Pipeline run failed: %v", err)
	}
}
