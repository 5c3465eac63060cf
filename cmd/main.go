package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/tournament-structure/config"
	"github.com/Dosada05/tournament-structure/db"
	"github.com/Dosada05/tournament-structure/handlers"
	"github.com/Dosada05/tournament-structure/middleware"
	"github.com/Dosada05/tournament-structure/repositories"
	api "github.com/Dosada05/tournament-structure/routes"
	"github.com/Dosada05/tournament-structure/services"
	"github.com/Dosada05/tournament-structure/storage"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	rules, err := config.LoadRules(cfg.StructureRulesPath)
	if err != nil {
		logger.Error("failed to load structure rules", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("structure rules loaded", slog.Int("formats", len(rules)), slog.String("path", cfg.StructureRulesPath))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.EnsureSchema(schemaCtx, dbConn)
	cancelSchema()
	if err != nil {
		logger.Error("failed to prepare database schema", slog.Any("error", err))
		os.Exit(1)
	}

	uploader, err := newSnapshotUploader(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize snapshot storage", slog.Any("error", err))
		os.Exit(1)
	}

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	structureService := services.NewStructureService(rules, tournamentRepo, uploader, clockwork.NewRealClock(), logger)

	formatHandler := handlers.NewFormatHandler(rules)
	structureHandler := handlers.NewStructureHandler(structureService)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			CORSAllowOrigins:  cfg.CORSAllowOrigins,
			PreviewRateLimit:  cfg.PreviewRateLimit,
			PreviewRateWindow: cfg.PreviewRateWindow,
		},
		middleware.NewAuthenticator(cfg.JWTSecretKey),
		formatHandler,
		structureHandler,
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

// newSnapshotUploader uses Cloudflare R2 when it is configured and falls back to in-process storage.
func newSnapshotUploader(cfg *config.Config, logger *slog.Logger) (storage.FileUploader, error) {
	r2 := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if !r2.Complete() {
		logger.Warn("Cloudflare R2 is not configured, published snapshots are kept in memory")
		mem, err := storage.NewMemoryUploader(cfg.R2PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return mem, nil
	}
	uploader, err := storage.NewCloudflareR2Uploader(context.Background(), r2)
	if err != nil {
		return nil, err
	}
	logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	return uploader, nil
}
