package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"roi-agent/config"
	httpLayer "roi-agent/http"
	"roi-agent/repository"
	"roi-agent/service"
)

func main() {
	cfg := config.Load()

	var runs repository.RunRepository
	if cfg.DBPath != "" {
		sqliteRuns, err := repository.NewRunRepositorySQLite(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open run history at %s: %v", cfg.DBPath, err)
		}
		defer sqliteRuns.Close()
		runs = sqliteRuns
	} else {
		runs = repository.NewRunRepositoryMemory()
	}

	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
	} else {
		cache = repository.NewMockCache()
	}

	loanService := service.NewLoanScheduleService()
	simulationService := service.NewSimulationService(runs, cache)
	aiService := service.NewAIService(cfg.OpenAIKey)

	loanHandler := httpLayer.NewLoanHandler(loanService)
	simulationHandler := httpLayer.NewSimulationHandler(loanService, simulationService, aiService)
	chartHandler := httpLayer.NewChartHandler(loanService, simulationService)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer rateLimiter.Stop()

	mux := http.NewServeMux()
	mux.Handle(
		"/loan/schedule",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(loanHandler.ComputeSchedule),
		),
	)

	mux.Handle(
		"/simulation/run",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(simulationHandler.RunSimulation),
		),
	)

	mux.Handle(
		"/simulation/chart",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(chartHandler.RenderGrowthChart),
		),
	)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("🚀 API corriendo en http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Errorf("error starting server: %v", err)
		return
	case <-quit:
		log.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("error during server shutdown: %v", err)
	}

	log.Info("Server exited")
}
