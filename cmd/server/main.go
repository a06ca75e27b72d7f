package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"rwa-backend/internal/app"
	"rwa-backend/internal/config"
	"rwa-backend/internal/logging"
	"rwa-backend/internal/otp"
	"rwa-backend/internal/ports"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/seed"
	"rwa-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	// OTP codes live in Redis when configured, in process memory otherwise.
	var (
		otpStore otp.Store
		cache    ports.HealthChecker
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		rs := otp.NewRedisStore(rdb)
		if err := rs.Health(ctx); err != nil {
			logger.Error("failed to reach redis", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}
		otpStore, cache = rs, rs
	} else {
		logger.Warn("REDIS_ADDR not set, keeping one-time codes in memory")
		otpStore = otp.NewMemoryStore()
	}

	if cfg.SeedDemo {
		ds, err := seed.Demo()
		if err != nil {
			logger.Error("failed to parse demo data", "err", err)
			os.Exit(1)
		}
		if _, err := seed.Load(ctx, store, ds, cfg.Billing, logger); err != nil {
			logger.Error("failed to seed demo data", "err", err)
			os.Exit(1)
		}
	}

	router := app.NewHandler(app.Deps{
		Config: cfg,
		Logger: logger,
		Store:  store,
		OTP:    otpStore,
		Cache:  cache,
	})

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}
