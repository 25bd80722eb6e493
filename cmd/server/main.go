package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"signalboard/internal/alert"
	"signalboard/internal/config"
	cronrunner "signalboard/internal/cron"
	"signalboard/internal/db"
	"signalboard/internal/feed"
	"signalboard/internal/handler"
	"signalboard/internal/logger"
	"signalboard/internal/notify"
	"signalboard/internal/ratelimit"
	gormrepository "signalboard/internal/repository/gorm"
	"signalboard/web"

	_ "signalboard/docs"
)

func main() {
	cfgPath := os.Getenv("SB_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("SB_ENV_ONLY"); envOnlyRaw != "" {
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

	if cfg.Auth.IngestSecret == "" {
		logger.Warn("auth.ingest_secret is empty; all ingestion will be rejected")
	}

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
	hub := feed.NewHub(cfg.Feed, logger)
	senders := initSenders(cfg, logger)
	dispatcher := alert.NewDispatcher(cfg.Alerts, store, senders, logger)
	limiter := ratelimit.New(store, logger)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(handler.RequestIDMiddleware())
	engine.Use(handler.AuditMiddleware(store, cfg.Server.ClientIPHeader, logger))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	signalHandler := &handler.SignalHandler{
		Repo:           store,
		Hub:            hub,
		Limiter:        limiter,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Auth:           cfg.Auth,
		RateLimit:      cfg.RateLimit,
		ClientIPHeader: cfg.Server.ClientIPHeader,
	}
	signalHandler.Register(engine)

	streamHandler := &handler.StreamHandler{
		Repo:      store,
		Hub:       hub,
		Logger:    logger,
		Heartbeat: cfg.Feed.Heartbeat,
	}
	streamHandler.Register(engine)

	alertHandler := &handler.AlertHandler{
		Senders:        senders,
		Limiter:        limiter,
		Logger:         logger,
		SendTimeout:    cfg.Alerts.SendTimeout,
		PerMin:         cfg.RateLimit.DefaultPerMin,
		ClientIPHeader: cfg.Server.ClientIPHeader,
	}
	alertHandler.Register(engine)

	webHandler := &handler.WebHandler{Assets: web.Assets()}
	webHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("alert dispatcher stopped", zap.Error(err))
		}
	}()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err := cronRunner.Add("counter_prune", cfg.Cron.CounterPrune, func(ctx context.Context) error {
			n, err := limiter.Prune(ctx, cfg.RateLimit.Retention)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("pruned rate-limit counters", zap.Int64("count", n))
			}
			return nil
		})
		if err != nil {
			logger.Warn("cron register counter prune failed", zap.Error(err))
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

func initSenders(cfg config.Config, logger *zap.Logger) []notify.Sender {
	var senders []notify.Sender
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		senders = append(senders, notify.NewTelegram(cfg.Telegram))
		logger.Info("telegram alerts enabled")
	}
	if cfg.Discord.WebhookURL != "" {
		senders = append(senders, notify.NewDiscord(cfg.Discord))
		logger.Info("discord alerts enabled")
	}
	if len(senders) == 0 {
		logger.Info("no alert channels configured")
	}
	return senders
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,x-timestamp,x-signature")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
