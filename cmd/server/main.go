package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quantum-pipeline/internal/assistant"
	"quantum-pipeline/internal/config"
	apphttp "quantum-pipeline/internal/http"
	"quantum-pipeline/internal/jobs"
	"quantum-pipeline/internal/metrics"
	"quantum-pipeline/internal/repository"
	"quantum-pipeline/internal/repository/memory"
	"quantum-pipeline/internal/repository/sqlite"
	"quantum-pipeline/internal/service"
	"quantum-pipeline/internal/session"
	"quantum-pipeline/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logger.GetLevel())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobRepo, closeRepo, err := buildJobRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup job repository: %v", err)
	}
	defer closeRepo()

	chat := assistant.NewService(cfg.Assistant.ReplyDelay, logger)

	var registry *session.Registry
	m := metrics.New(func() int { return registry.Len() })

	manager := jobs.NewManager(jobs.Config{
		MaxConcurrent:  cfg.Jobs.MaxConcurrent,
		StatusInterval: cfg.Jobs.StatusInterval,
		Simulations:    jobs.DefaultSimulations(cfg.Jobs.Docking, cfg.Jobs.Screening, cfg.Jobs.Quantum),
		Logger:         logger,
		Observer:       m,
	}, jobRepo)

	if err := manager.Start(ctx); err != nil {
		logger.Fatalf("start manager: %v", err)
	}
	if err := manager.Recover(ctx); err != nil {
		logger.Warnf("recover jobs: %v", err)
	}

	registry = session.NewRegistry(
		session.NewTokenIssuer([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL),
		func() *session.Store {
			return session.New(session.WithLatency(cfg.Auth.Latency))
		},
		session.WithEvictHook(func(id string) {
			chat.Reset(id)
			forgetCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := manager.Forget(forgetCtx, id); err != nil {
				logger.WithField("session", id).Warnf("forget session jobs: %v", err)
			}
		}),
	)
	go registry.Run(ctx, time.Minute)

	exporter, err := buildExporter(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Dependencies{
		Sessions: registry,
		Auth:     service.NewAuthService(manager, chat, m, logger),
		Panels:   service.NewPanelService(manager, chat),
		Jobs:     manager,
		Chat:     chat,
		Exports:  exporter,
		Metrics:  m,
		Logger:   logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	manager.Shutdown()

	logger.Info("bye")
}

// buildJobRepository keeps job history in SQLite when a database path is
// configured and in memory otherwise.
func buildJobRepository(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.JobRepository, func(), error) {
	if cfg.Database.Path == "" {
		logger.Info("job history kept in memory")
		return memory.NewJobRepository(), func() {}, nil
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	repo := sqlite.NewJobRepository(db)
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init job repository: %w", err)
	}
	logger.Infof("job history stored in %s", cfg.Database.Path)
	return repo, func() { db.Close() }, nil
}

// buildExporter returns nil when no bucket is configured; export routes
// then answer 503.
func buildExporter(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*storage.Exporter, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not configured, exports disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewExporter(storage.NewS3Service(client), cfg.Storage.Bucket, cfg.Storage.KeyPrefix), nil
}
