package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Stanislas-Motte/COT-Tool/internal/config"
	"github.com/Stanislas-Motte/COT-Tool/internal/db"
	"github.com/Stanislas-Motte/COT-Tool/internal/etl"
	"github.com/Stanislas-Motte/COT-Tool/internal/logger"
	gormrepository "github.com/Stanislas-Motte/COT-Tool/internal/repository/gorm"
	"github.com/Stanislas-Motte/COT-Tool/internal/service"
)

func main() {
	var autoMap bool
	flag.BoolVar(&autoMap, "auto-map", false, "seed ticker mappings after loading")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: loader [-auto-map] <workbook.xls[x]> ...")
		os.Exit(2)
	}

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
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.AutoMigrate(dbConn); err != nil {
		log.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	loader := &etl.Loader{Repo: store, Logger: log}

	ctx := context.Background()
	for _, path := range flag.Args() {
		result, err := loader.LoadFile(ctx, path)
		if err != nil {
			log.Fatal("load failed", zap.String("path", path), zap.Error(err))
		}
		log.Info("load finished",
			zap.String("path", path),
			zap.Int("rows", result.Rows),
			zap.Int("skipped", result.Skipped),
			zap.Int64("upserted", result.Upserted))
	}

	if autoMap {
		mappingSvc := service.NewMappingService(store, log)
		results, err := mappingSvc.AutoMap(ctx, true)
		if err != nil {
			log.Fatal("auto-map failed", zap.Error(err))
		}
		mapped := 0
		for _, r := range results {
			if r.Status == "mapped" {
				mapped++
			}
		}
		log.Info("auto-map finished",
			zap.Int("commodities", len(results)),
			zap.Int("mapped", mapped))
	}
}
