package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/folio/internal/config"
	"github.com/xxxsen/folio/internal/filestore"
	"github.com/xxxsen/folio/internal/handler"
	"github.com/xxxsen/folio/internal/job"
	"github.com/xxxsen/folio/internal/middleware"
	"github.com/xxxsen/folio/internal/repo"
	"github.com/xxxsen/folio/internal/schedule"
	"github.com/xxxsen/folio/internal/service"
	"github.com/xxxsen/folio/internal/session"
)

const shutdownTimeout = 10 * time.Second

func runServer(cfg *config.Config, db *sql.DB) error {
	logger := logutil.GetLogger(context.Background())
	logger.Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.Bool("redis_counters", cfg.Share.RedisAddr != ""),
	)
	if !cfg.AdminLoginConfigured() {
		logger.Warn("no admin credential configured, admin routes will reject every request")
	}

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	shareRepo := repo.NewShareLinkRepo(db)
	projectRepo := repo.NewProjectRepo(db)
	bookletRepo := repo.NewBookletRepo(db)

	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour
	authority := session.NewAuthority([]byte(cfg.SessionSecret), ttl)
	authService := service.NewAuthService(cfg.AdminPassword, cfg.AdminPasswordHash, authority)
	shareService := service.NewShareLinkService(shareRepo,
		service.WithShareIDBytes(cfg.Share.IDBytes),
		service.WithCreateAttempts(cfg.Share.MaxCreateAttempts),
	)
	projectService := service.NewProjectService(projectRepo)
	bookletService := service.NewBookletService(bookletRepo, store, cfg.SiteURL, cfg.Upload.MaxDocumentBytes)
	mediaService := service.NewMediaService(store, cfg.SiteURL, cfg.Upload.MaxImageBytes)

	counter, closeCounter := newFailureCounter(cfg.Share)
	defer closeCounter()

	deps := handler.RouterDeps{
		Auth:       handler.NewAuthHandler(authService, session.CookieOptions{Secure: cfg.Session.CookieSecure, MaxAge: authority.TTL()}),
		Shares:     handler.NewShareHandler(shareService, handler.NewRedeemLimiter(counter, cfg.Share.RedeemMaxFailures), cfg.SiteURL),
		Projects:   handler.NewProjectHandler(projectService),
		Booklets:   handler.NewBookletHandler(bookletService),
		Files:      handler.NewFileHandler(mediaService),
		Properties: handler.NewPropertiesHandler(cfg.Properties()),
		Verifier:   authority,
		LoginLimit: time.Duration(cfg.LoginRateLimitSeconds) * time.Second,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			middleware.Timeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler(schedule.WithJobTimeout(time.Hour))
	if cfg.Share.CleanupCron != "" {
		grace := time.Duration(cfg.Share.CleanupGraceDays) * 24 * time.Hour
		if err := scheduler.AddJob(job.NewShareLinkCleanupJob(shareService, grace), cfg.Share.CleanupCron); err != nil {
			return fmt.Errorf("schedule share cleanup: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newFailureCounter(cfg config.ShareConfig) (handler.FailureCounter, func()) {
	window := time.Duration(cfg.RedeemWindowSeconds) * time.Second
	if cfg.RedisAddr == "" {
		return handler.NewMemoryFailureCounter(window), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logutil.GetLogger(context.Background()).Warn("redis unreachable, redeem counters will fail open", zap.Error(err))
	}
	return handler.NewRedisFailureCounter(client, window), func() { _ = client.Close() }
}
