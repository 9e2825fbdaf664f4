package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/clouddocs/server/internal/api/http/handler"
	"github.com/clouddocs/server/internal/api/http/middleware"
	"github.com/clouddocs/server/internal/api/http/router"
	"github.com/clouddocs/server/internal/assist"
	"github.com/clouddocs/server/internal/assist/anthropic"
	"github.com/clouddocs/server/internal/auth"
	"github.com/clouddocs/server/internal/config"
	"github.com/clouddocs/server/internal/email"
	"github.com/clouddocs/server/internal/logger"
	"github.com/clouddocs/server/internal/repository/postgres"
	"github.com/clouddocs/server/internal/server"
	"github.com/clouddocs/server/internal/service"
	storage "github.com/clouddocs/server/internal/storage/minio"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize metadata store", "error", err)
	}
	defer db.Close()

	fileRepo := postgres.NewFileRepository(db)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	// The process must not accept requests without a usable key set.
	resolver, err := auth.NewResolver(ctx, cfg.Identity.JWKSURL, cfg.Identity.RefreshInterval, logger)
	if err != nil {
		logger.Fatal("failed to fetch identity keys", "error", err)
	}
	if cfg.Identity.RefreshInterval > 0 {
		go resolver.Run(ctx)
	}
	verifier := auth.NewVerifier(resolver)

	completer := anthropic.NewClient(cfg.Assist.Endpoint, cfg.Assist.APIKey, cfg.Assist.Model, cfg.Assist.Timeout)
	assistService := assist.New(completer, logger)

	mailer := email.NewSMTPMailer(cfg.Email.Host, cfg.Email.Port, cfg.Email.From)

	fileService := service.NewFile(fileRepo, storageClient, mailer, logger)

	fileHandler := handler.NewFile(fileService, logger)
	assistHandler := handler.NewAssist(assistService, logger)
	authMiddleware := middleware.NewAuthenticate(verifier)
	loggingMiddleware := middleware.NewLogging(logger)

	h := router.New(fileHandler, assistHandler, authMiddleware, loggingMiddleware, cfg.HTTP.CORSOrigins)
	srv := server.NewHTTPServer(fmt.Sprintf(":%s", cfg.HTTP.Port), h)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "address", srv.Address())
		if err := srv.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
