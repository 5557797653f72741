package main

import (
	"github.com/TalineFS/Dashboards/internal/config"
	"github.com/TalineFS/Dashboards/internal/handlers"
	"github.com/TalineFS/Dashboards/internal/services"
	"github.com/TalineFS/Dashboards/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg              *config.Config
	store            *services.DatasetStore
	datasetHandler   *handlers.DatasetHandler
	dashboardHandler *handlers.DashboardHandler
}

// bootstrap initializes all application dependencies: the in-memory
// dataset store, the pipeline services, and the expiry scheduler.
func bootstrap(cfg *config.Config) *appServices {
	ingest := services.NewIngestService(&cfg.Analytics)
	store := services.NewDatasetStore(ingest, &cfg.Datasets)

	if err := store.StartSweeper(cfg.Datasets.CleanupMins); err != nil {
		logger.Warn().Err(err).Msg("Failed to start dataset sweeper")
	}

	dashboardService := services.NewDashboardService(store, &cfg.Analytics)

	return &appServices{
		cfg:              cfg,
		store:            store,
		datasetHandler:   handlers.NewDatasetHandler(store, &cfg.Upload),
		dashboardHandler: handlers.NewDashboardHandler(dashboardService),
	}
}

// shutdown gracefully stops all background work.
func (s *appServices) shutdown() {
	s.store.StopSweeper()
	logger.Info().Msg("Dataset sweeper stopped")
}
