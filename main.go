package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/cache"
	"rentals-dashboard/app/config"
	"rentals-dashboard/app/routes/auth"
	"rentals-dashboard/app/server"
	"rentals-dashboard/app/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Set global time zone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("failed to load time zone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		time.Local = time.UTC
	} else {
		time.Local = loc
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newCache(ctx, cfg, logger)

	api := backend.New(cfg.Backend.URL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(logger),
	)

	app := server.New(server.Deps{
		API:            api,
		Cache:          store,
		Tokens:         auth.NewTokens(cfg.Session.Secret, cfg.Session.TTL),
		Log:            logger,
		TemplateReload: cfg.TemplateReload,
		StaticDir:      "./static",
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("backend", cfg.Backend.URL))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newCache prefers Redis when REDIS_URL is set and falls back to memory.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.Store {
	if cfg.Cache.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := cache.NewRedis(pingCtx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err == nil {
			logger.Info("page cache: redis")
			go func() {
				<-ctx.Done()
				r.Close()
			}()
			return r
		}
		logger.Warn("redis unavailable, using in-memory page cache", zap.Error(err))
	}

	m := cache.NewMemory(cfg.Cache.TTL)
	services.StartScheduler(ctx, m, cfg.Cache.TTL, logger)
	return m
}
