package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/client/yahoo"
	"github.com/Stanislas-Motte/COT-Tool/internal/config"
	cronrunner "github.com/Stanislas-Motte/COT-Tool/internal/cron"
	"github.com/Stanislas-Motte/COT-Tool/internal/db"
	"github.com/Stanislas-Motte/COT-Tool/internal/handler"
	"github.com/Stanislas-Motte/COT-Tool/internal/logger"
	gormrepository "github.com/Stanislas-Motte/COT-Tool/internal/repository/gorm"
	"github.com/Stanislas-Motte/COT-Tool/internal/service"
)

func main() {
	cfgPath := os.Getenv("COT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("COT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	priceHTTP := &http.Client{Timeout: cfg.Price.Timeout}
	priceClient := yahoo.NewClient(priceHTTP, cfg.Price.BaseURL, cfg.Price.UserAgent)

	datasetSvc := service.NewDatasetService(store)
	chartSvc := service.NewChartService(datasetSvc)
	panelSvc := service.NewPricePanelService(store, priceClient, logger)
	mappingSvc := service.NewMappingService(store, logger)
	refreshSvc := service.NewPriceRefreshService(store, panelSvc, logger, cfg.Price.FetchDelay, cfg.Price.VerifiedOnly)
	exportSvc := service.NewExportService(datasetSvc)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	commoditiesHandler := &handler.CommoditiesHandler{Datasets: datasetSvc, Logger: logger}
	commoditiesHandler.Register(engine)
	chartHandler := &handler.ChartHandler{Charts: chartSvc, Logger: logger}
	chartHandler.Register(engine)
	pricesHandler := &handler.PricesHandler{
		Repo:     store,
		Panels:   panelSvc,
		Mappings: mappingSvc,
		Logger:   logger,
	}
	pricesHandler.Register(engine)
	exportHandler := &handler.ExportHandler{Exports: exportSvc, Logger: logger}
	exportHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if cfg.Price.RefreshEnabled {
			_, err := cronRunner.Add("price_refresh", cfg.Cron.PriceRefresh, func(ctx context.Context) {
				n, err := refreshSvc.RefreshAll(ctx)
				if err != nil {
					logger.Warn("cron price refresh failed", zap.Error(err))
					return
				}
				logger.Info("cron price refresh ok", zap.Int("refreshed", n))
			})
			if err != nil {
				logger.Warn("cron register price refresh failed", zap.Error(err))
			}
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
