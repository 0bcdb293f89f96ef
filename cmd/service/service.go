package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"password-reset/internal/cache"
	"password-reset/internal/config"
	"password-reset/internal/database"
	"password-reset/internal/logging"
	"password-reset/internal/mail"
	"password-reset/internal/router"
	"password-reset/internal/service"
	"password-reset/internal/validation"
	"password-reset/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "password-reset/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	mailQueueSize   = 100
	mailTaskTimeout = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

var (
	loadConfig      = config.Load
	newLogger       = logging.New
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newWorkerPool   = worker.NewPool
	startServer     = serve
)

// serve 啟動 HTTP 服務，收到 SIGINT/SIGTERM 時優雅關閉
func serve(e *echo.Echo, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

func newMailer(cfg *config.Config, logger *zap.Logger) mail.Sender {
	if !cfg.SMTPEnabled() {
		return mail.NewLogSender(logger)
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Timeout:  mailTaskTimeout,
	}, logger)
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("建立 logger 失敗: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	wp := newWorkerPool(cfg.WorkerCount,
		worker.WithQueueSize(mailQueueSize),
		worker.WithTaskTimeout(mailTaskTimeout),
		worker.WithPanicHandler(func(r any) {
			logger.Error("worker task panicked", zap.Any("panic", r))
		}),
	)
	defer wp.Stop()

	resetSvc := service.NewPasswordResetService(db, rdb, wp, newMailer(cfg, logger), logger, cfg.PasswordResetTTL)

	e := echo.New()
	e.HideBanner = true
	// 限流以連線來源 IP 為準，不信任 X-Forwarded-For / X-Real-IP
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = validation.New()
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())

	router.Setup(e, router.Deps{
		DB:             db,
		Cache:          rdb,
		PasswordReset:  resetSvc,
		Logger:         logger,
		JWTSecret:      []byte(cfg.JWTSecret),
		AccessTokenTTL: cfg.AccessTokenTTL,
		ResetRateLimit: cfg.RateLimitPerSecond,
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	logger.Info("server starting", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
	return startServer(e, cfg.Addr())
}
