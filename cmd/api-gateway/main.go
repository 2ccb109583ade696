package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	internalhandler "github.com/noah-isme/roster-scheduler-api/internal/handler"
	internalmiddleware "github.com/noah-isme/roster-scheduler-api/internal/middleware"
	"github.com/noah-isme/roster-scheduler-api/internal/scheduler"
	"github.com/noah-isme/roster-scheduler-api/internal/service"
	"github.com/noah-isme/roster-scheduler-api/pkg/config"
	"github.com/noah-isme/roster-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/roster-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/roster-scheduler-api/pkg/middleware/requestid"
	"github.com/noah-isme/roster-scheduler-api/pkg/solvepool"
)

// @title Roster Scheduler API
// @version 0.1.0
// @description CP-SAT powered rostering service for AÖ and NA duty modes
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)
	healthHandler := internalhandler.NewHealthHandler()

	validate := validator.New()
	pool := solvepool.New("cp-sat", solvepool.Config{
		MaxConcurrent: cfg.Scheduler.MaxConcurrentSolves,
		Logger:        logr,
	})

	driverCfg := scheduler.DriverConfig{
		TimeLimitSeconds:     cfg.Scheduler.TimeLimitSeconds,
		RandomSeed:           cfg.Scheduler.RandomSeed,
		NumSearchWorkers:     cfg.Scheduler.NumSearchWorkers,
		RelaxedUpperBoundGap: cfg.Scheduler.RelaxedUpperBoundGap,
	}

	aoSvc := service.NewAOService(validate, logr, metricsSvc, pool, cfg.WeightsAO, driverCfg)
	naSvc := service.NewNAService(validate, logr, metricsSvc, pool, cfg.WeightsNA, driverCfg)
	aoHandler := internalhandler.NewAOHandler(aoSvc)
	naHandler := internalhandler.NewNAHandler(naSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/health/ao", healthHandler.AO)
	r.GET("/health/na", healthHandler.NA)

	api := r.Group(cfg.APIPrefix)
	schedules := api.Group("/schedules")
	schedules.POST("/ao/generate", aoHandler.Generate)
	schedules.POST("/na/generate", naHandler.Generate)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
