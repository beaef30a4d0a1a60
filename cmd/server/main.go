package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aqi-forecast-service/internal/adapters/primary/http/handlers"
	"aqi-forecast-service/internal/adapters/primary/http/middleware"
	"aqi-forecast-service/internal/adapters/secondary/memory"
	"aqi-forecast-service/internal/adapters/secondary/openmeteo"
	"aqi-forecast-service/internal/adapters/secondary/postgres"
	"aqi-forecast-service/internal/config"
	"aqi-forecast-service/internal/core/domain"
	"aqi-forecast-service/internal/core/services"
	"aqi-forecast-service/internal/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	site := domain.Location{
		Name:      cfg.Location.Name,
		Latitude:  cfg.Location.Latitude,
		Longitude: cfg.Location.Longitude,
		Timezone:  cfg.Location.Timezone,
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Repositories)
	obsRepo := postgres.NewObservationRepository(pool)
	registryRepo := postgres.NewModelRegistryRepository(pool)
	forecastRepo := memory.NewCachedForecastRepository(postgres.NewForecastRepository(pool), cfg.Pipeline.CacheTTL)

	// Open-Meteo client with rate limiting
	meteoOpts := []openmeteo.Option{openmeteo.WithTimeout(cfg.OpenMeteo.Timeout)}
	if cfg.OpenMeteo.AirQualityURL != "" || cfg.OpenMeteo.WeatherURL != "" {
		meteoOpts = append(meteoOpts, openmeteo.WithBaseURLs(cfg.OpenMeteo.AirQualityURL, cfg.OpenMeteo.WeatherURL))
	}
	aqClient := openmeteo.NewRateLimitedClient(openmeteo.NewClient(meteoOpts...), cfg.OpenMeteo.RPS, cfg.OpenMeteo.Burst)

	// Core Services (Application Layer)
	featureSvc := services.NewFeatureService(obsRepo, aqClient, site)
	registrySvc := services.NewRegistryService(registryRepo)
	trainingSvc := services.NewTrainingService(obsRepo, registrySvc, site, services.TrainingConfig{
		ModelName:    cfg.Pipeline.ModelName,
		HorizonHours: cfg.Pipeline.HorizonHours,
		HistoryDays:  cfg.Pipeline.HistoryDays,
		MinHours:     cfg.Pipeline.MinTrainHours,
	})
	inferenceSvc := services.NewInferenceService(obsRepo, forecastRepo, registrySvc, site, cfg.Pipeline.ModelName, cfg.Pipeline.HistoryDays)
	forecastSvc := services.NewForecastService(forecastRepo, site)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(featureSvc, registrySvc, trainingSvc, inferenceSvc, forecastSvc, cfg.Pipeline.ModelName, site)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Background pipelines
	sched := pipeline.NewScheduler(pipeline.Jobs(featureSvc, trainingSvc, inferenceSvc, pipeline.Config{
		IngestInterval: cfg.Pipeline.IngestInterval,
		TrainInterval:  cfg.Pipeline.TrainInterval,
		InferInterval:  cfg.Pipeline.InferInterval,
		IngestPastDays: cfg.Pipeline.IngestPastDays,
	})...)
	sched.Start(context.Background())

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
