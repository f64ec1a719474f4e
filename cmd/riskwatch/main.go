package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riskwatch/internal/analysis"
	"riskwatch/internal/auth"
	"riskwatch/internal/config"
	"riskwatch/internal/db"
	"riskwatch/internal/httpserver"
	"riskwatch/internal/logging"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg := config.Load()

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(ctx, dbConn, "sql"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userStore := auth.NewStore(dbConn)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(userStore, issuer)

	vocabulary, err := analysis.LoadIndicators(cfg.IndicatorsPath)
	if err != nil {
		log.Fatalf("load indicators: %v", err)
	}

	var textScorer analysis.Scorer = analysis.NewKeywordScorer(vocabulary)
	if cfg.OpenAIAPIKey != "" {
		textScorer = analysis.NewModelScorer(cfg.OpenAIAPIKey, textScorer, logger)
		logger.Info("model-backed text scoring enabled")
	}
	imageScorer := analysis.NewRasterScorer()

	logStore := analysis.NewStore(dbConn)
	pipeline := analysis.NewPipeline(issuer, textScorer, imageScorer, logStore, logger)

	handler := httpserver.NewRouter(logger, authSvc, issuer, pipeline, logStore)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
