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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/agrocampo/ganadero-api/api/swagger"
	"github.com/agrocampo/ganadero-api/internal/handler"
	"github.com/agrocampo/ganadero-api/internal/middleware"
	"github.com/agrocampo/ganadero-api/internal/models"
	"github.com/agrocampo/ganadero-api/internal/repository"
	"github.com/agrocampo/ganadero-api/internal/service"
	"github.com/agrocampo/ganadero-api/pkg/cache"
	"github.com/agrocampo/ganadero-api/pkg/config"
	"github.com/agrocampo/ganadero-api/pkg/database"
	"github.com/agrocampo/ganadero-api/pkg/geo"
	"github.com/agrocampo/ganadero-api/pkg/logger"
	corsmiddleware "github.com/agrocampo/ganadero-api/pkg/middleware/cors"
	reqidmiddleware "github.com/agrocampo/ganadero-api/pkg/middleware/requestid"
)

// @title Ganadero API
// @version 1.0.0
// @description Livestock health administration for farms, outbreaks and vaccination campaigns
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(db)
	farmRepo := repository.NewFarmRepository(db)
	animalRepo := repository.NewAnimalRepository(db)
	outbreakRepo := repository.NewOutbreakRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "ganadero-api",
	})
	userSvc := service.NewUserService(userRepo, logr)
	farmSvc := service.NewFarmService(farmRepo, nil, logr)
	animalSvc := service.NewAnimalService(animalRepo, farmRepo, nil, logr)
	outbreakSvc := service.NewOutbreakService(service.OutbreakServiceParams{
		Repo:       outbreakRepo,
		Animals:    animalRepo,
		Farms:      farmRepo,
		Audit:      userRepo,
		Resolver:   geo.NewNominatimResolver(cfg.Geo.ResolverURL),
		GeoTimeout: cfg.Geo.Timeout,
		Metrics:    metricsSvc,
		Logger:     logr,
	})
	campaignSvc := service.NewCampaignService(campaignRepo, outbreakRepo, userRepo, metricsSvc, nil, logr)
	movementSvc := service.NewMovementService(movementRepo, animalRepo, farmRepo, userRepo, nil, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})
	reportSvc := service.NewReportService(outbreakRepo, campaignRepo, farmRepo, logr)
	campaignSvc.NotifyChanges(dashboardSvc.Invalidate)

	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	userHandler := handler.NewUserHandler(userSvc)
	farmHandler := handler.NewFarmHandler(farmSvc)
	animalHandler := handler.NewAnimalHandler(animalSvc)
	outbreakHandler := handler.NewOutbreakHandler(outbreakSvc)
	campaignHandler := handler.NewCampaignHandler(campaignSvc)
	movementHandler := handler.NewMovementHandler(movementSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/farms", farmHandler.List)
		protected.GET("/farms/regions", farmHandler.Regions)
		protected.GET("/farms/:id", farmHandler.Get)
		protected.GET("/farms/:id/animals", animalHandler.ListByFarm)
		protected.GET("/farms/:id/outbreaks", outbreakHandler.ListByFarm)
		protected.GET("/farms/:id/campaigns", campaignHandler.ListByFarm)
		protected.GET("/farms/:id/movements", movementHandler.FarmFeed)
		protected.GET("/animals/:id", animalHandler.Get)
		protected.GET("/outbreaks", outbreakHandler.List)
		protected.GET("/outbreaks/:id", outbreakHandler.Get)
		protected.GET("/outbreaks/:id/validations", outbreakHandler.Validations)
		protected.GET("/outbreaks/:id/campaigns", campaignHandler.GetByOutbreak)
		protected.GET("/campaigns", campaignHandler.List)
		protected.GET("/campaigns/:id", campaignHandler.Get)
	}

	farmers := api.Group("")
	farmers.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleFarmManager))
	{
		farmers.POST("/farms", farmHandler.Create)
		farmers.DELETE("/farms/:id", farmHandler.Delete)
		farmers.POST("/farms/:id/animals", animalHandler.Register)
		farmers.PATCH("/animals/:id/health", animalHandler.UpdateHealth)
		farmers.DELETE("/animals/:id", animalHandler.Delete)
		farmers.POST("/farms/:id/exports", movementHandler.Export)
		farmers.POST("/farms/:id/imports", movementHandler.Import)
	}

	agents := api.Group("")
	agents.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleVaccinationAgent))
	{
		agents.POST("/farms/:id/outbreaks", outbreakHandler.Report)
		agents.POST("/outbreaks/:id/campaigns", campaignHandler.Create)
		agents.PATCH("/campaigns/:id/status", campaignHandler.UpdateStage)
		agents.POST("/campaigns/:id/vaccinations", campaignHandler.AddVaccination)
	}

	oversight := api.Group("")
	oversight.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleFedeganManager))
	{
		oversight.GET("/outbreaks/pending", outbreakHandler.ListPending)
		oversight.POST("/outbreaks/:id/validate", outbreakHandler.Validate)
		if cfg.Dashboard.Enabled {
			oversight.GET("/dashboard/regions", dashboardHandler.Regions)
		}
		if cfg.Reports.Enabled {
			oversight.GET("/outbreaks/:id/report",
				middleware.Audit(userRepo, "REPORT_DOWNLOAD", "outbreak"),
				reportHandler.Outbreak)
		}
		oversight.GET("/movements", movementHandler.Feed)
		oversight.GET("/users", userHandler.List)
		oversight.GET("/users/agents", userHandler.Agents)
		oversight.DELETE("/users/agents/:id", userHandler.DeleteAgent)
		oversight.GET("/metrics/snapshot", metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
