package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/batch-fee-api/api/swagger"
	"github.com/noah-isme/batch-fee-api/internal/dto"
	"github.com/noah-isme/batch-fee-api/internal/handler"
	"github.com/noah-isme/batch-fee-api/internal/middleware"
	"github.com/noah-isme/batch-fee-api/internal/repository"
	"github.com/noah-isme/batch-fee-api/internal/service"
	"github.com/noah-isme/batch-fee-api/pkg/cache"
	"github.com/noah-isme/batch-fee-api/pkg/config"
	"github.com/noah-isme/batch-fee-api/pkg/database"
	"github.com/noah-isme/batch-fee-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/batch-fee-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/batch-fee-api/pkg/middleware/requestid"
)

// @title Batch Fee API
// @version 1.0.0
// @description Fee structures, batches and batch fee calculations for tuition administrators
// @BasePath /api
// @schemes http

type handlers struct {
	batches       *handler.BatchHandler
	feeStructures *handler.FeeStructureHandler
	batchFees     *handler.BatchFeeHandler
	reference     *handler.ReferenceHandler
	metrics       *handler.MetricsHandler
}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		logr.Fatal("failed to prepare schema", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	cacheSvc := newCacheService(cfg, metrics, logr)

	h := buildHandlers(db, cacheSvc, metrics, logr)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())
	registerRoutes(r, cfg, h)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newCacheService connects to Redis when caching is enabled. A Redis outage at
// startup disables caching instead of aborting.
func newCacheService(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.CacheService {
	if !cfg.Cache.Enabled {
		return service.NewCacheService(nil, metrics, cfg.Cache.TTL, logr, false)
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		return service.NewCacheService(nil, metrics, cfg.Cache.TTL, logr, false)
	}
	repo := repository.NewCacheRepository(client, logr)
	return service.NewCacheService(repo, metrics, cfg.Cache.TTL, logr, true)
}

func buildHandlers(db *sqlx.DB, cacheSvc *service.CacheService, metrics *service.MetricsService, logr *zap.Logger) handlers {
	validate := validator.New()

	batchRepo := repository.NewBatchRepository(db).WithObserver(metrics)
	feeStructureRepo := repository.NewFeeStructureRepository(db).WithObserver(metrics)
	batchFeeRepo := repository.NewBatchFeeRepository(db).WithObserver(metrics)

	batchSvc := service.NewBatchService(batchRepo, cacheSvc, validate, logr)
	feeStructureSvc := service.NewFeeStructureService(feeStructureRepo, cacheSvc, validate, logr)
	batchFeeSvc := service.NewBatchFeeService(service.BatchFeeServiceParams{
		Repo:          batchFeeRepo,
		Batches:       batchSvc,
		FeeStructures: feeStructureSvc,
		FeeLookup:     feeStructureRepo,
		Metrics:       metrics,
		Validator:     validate,
		Logger:        logr,
	})

	return handlers{
		batches:       handler.NewBatchHandler(batchSvc),
		feeStructures: handler.NewFeeStructureHandler(feeStructureSvc),
		batchFees:     handler.NewBatchFeeHandler(batchFeeSvc),
		reference:     handler.NewReferenceHandler(dto.DefaultReferenceData()),
		metrics:       handler.NewMetricsHandler(metrics, db),
	}
}

func registerRoutes(r *gin.Engine, cfg *config.Config, h handlers) {
	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/batches", h.batches.List)
	api.POST("/batches", h.batches.Create)
	api.GET("/batches/:id", h.batches.Get)

	api.GET("/fee-structures", h.feeStructures.List)
	api.POST("/fee-structures", h.feeStructures.Create)
	api.GET("/fee-structures/:id", h.feeStructures.Get)

	api.GET("/batch-fees", h.batchFees.List)
	api.POST("/batch-fees", h.batchFees.Create)
	api.POST("/batch-fees/calculate", h.batchFees.Calculate)
	api.GET("/batch-fees/export", h.batchFees.Export)

	api.GET("/reference-data", h.reference.Get)
	api.GET("/metrics/summary", h.metrics.Summary)
}
