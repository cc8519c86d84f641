package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/albirrudigital/infopekerjaan.id-sub002/config"
	v1 "github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/v1"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/repository/postgres"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/usecase"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/blob"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/database"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/logger"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/ratelimit"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/redis"

	"github.com/go-playground/validator/v10"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting job board backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; upload limiter fails open without it)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, upload rate limiting disabled", "error", err)
		}
		defer redis.Close()
	}

	// 5. Setup Blob Store
	blobStore, err := newBlobStore(cfg)
	if err != nil {
		logger.Log.Error("Failed to set up blob storage", "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	cvProfileRepo := postgres.NewCVProfileRepository(dbPool)
	documentRepo := postgres.NewDocumentRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)

	// 7. Setup UseCases
	validate := validator.New()
	blobTimeout := time.Duration(cfg.BlobTimeoutSeconds) * time.Second
	cvProfileUC := usecase.NewCVProfileUsecase(cvProfileRepo, validate)
	documentUC := usecase.NewDocumentUsecase(documentRepo, blobStore, cfg.MaxUploadBytes, blobTimeout)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, cvProfileRepo, documentRepo, jobRepo)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CVProfileUC:   cvProfileUC,
		DocumentUC:    documentUC,
		ApplicationUC: applicationUC,
		UploadLimiter: ratelimit.NewUploadLimiter(cfg.UploadsPerMinPerIP, cfg.UploadsPerDayPerUser),
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// newBlobStore builds the configured backend: local disk by default, S3 when
// BLOB_BACKEND=s3.
func newBlobStore(cfg *config.Config) (blob.Store, error) {
	if cfg.BlobBackend == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return blob.NewS3Store(ctx, blob.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
	}
	return blob.NewLocalStore(cfg.UploadDir)
}
