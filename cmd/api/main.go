package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ilcs-ai/contract-ai/internal/application"
	appanalysis "github.com/ilcs-ai/contract-ai/internal/application/analysis"
	apprisk "github.com/ilcs-ai/contract-ai/internal/application/risk"
	"github.com/ilcs-ai/contract-ai/internal/config"
	domanalysis "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
	"github.com/ilcs-ai/contract-ai/internal/infra/ai/groq"
	"github.com/ilcs-ai/contract-ai/internal/infra/classifier"
	mysqlp "github.com/ilcs-ai/contract-ai/internal/infra/db/mysql"
	postgresp "github.com/ilcs-ai/contract-ai/internal/infra/db/postgres"
	"github.com/ilcs-ai/contract-ai/internal/infra/extract"
	"github.com/ilcs-ai/contract-ai/internal/infra/httpserver"
	minioStore "github.com/ilcs-ai/contract-ai/internal/infra/storage"
	"github.com/ilcs-ai/contract-ai/internal/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// history repo optional, tergantung driver yang dikonfigurasi
	var repo domanalysis.Repository
	var db *sql.DB
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewAnalysisRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewAnalysisRepository(db)
	case "":
		logger.Warn("no database driver configured, analysis history disabled")
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}
	if db != nil {
		defer db.Close()
	}

	// audit store optional
	var audit domanalysis.AuditStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		audit = store
	}

	// init extractor
	extractor := extract.NewExtractor(extract.Config{
		Pdftotext: cfg.Extract.Pdftotext,
		Pdftoppm:  cfg.Extract.Pdftoppm,
		Tesseract: cfg.Extract.Tesseract,
		Lang:      cfg.Extract.Lang,
		DPI:       cfg.Extract.DPI,
		MaxPages:  cfg.Extract.MaxPages,
	}, logger)

	// init LLM structurer
	structurer := groq.NewClient(groq.Config{
		APIKey:      cfg.Groq.APIKey,
		BaseURL:     cfg.Groq.BaseURL,
		Model:       cfg.Groq.Model,
		MaxTokens:   cfg.Groq.MaxTokens,
		Temperature: cfg.Groq.Temperature,
	}, logger)
	if !structurer.Available() {
		logger.Warn("groq api key not configured, contract structuring disabled")
	}

	// init risk classifier client
	clf := classifier.NewClient(classifier.Config{
		Endpoint: cfg.Classifier.Endpoint,
		Timeout:  time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
	}, logger)
	if !clf.Available() {
		logger.Warn("classifier endpoint not configured, risk analysis will return unknown")
	}

	riskSvc := apprisk.NewService(clf, logger)

	svc := &appanalysis.Service{
		Extractor:       extractor,
		Structurer:      structurer,
		Risk:            riskSvc,
		Audit:           audit,
		Repo:            repo,
		Clock:           application.SystemClock{},
		Logger:          logger,
		SalienceBudget:  cfg.Analysis.SalienceBudget,
		AlwaysBackupOCR: cfg.Analysis.AlwaysBackupOCR,
	}

	// health checkers untuk dependency yang dikonfigurasi
	checkers := map[string]middleware.HealthChecker{}
	if db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}
	if clf.Available() {
		checkers["classifier"] = middleware.PingChecker(func(ctx context.Context) error {
			_, err := clf.Info(ctx)
			return err
		})
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, riskSvc, httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxFileSize:    cfg.Limits.MaxFileSize,
		APIKeys:        cfg.Auth.APIKeys,
		RateCapacity:   cfg.Limits.RateCapacity,
		RateRefillRate: cfg.Limits.RateRefillRate,
		HealthCheckers: checkers,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
