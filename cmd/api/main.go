package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aura-backend/internal/auth"
	"aura-backend/internal/cache"
	"aura-backend/internal/config"
	"aura-backend/internal/db"
	"aura-backend/internal/faqs"
	"aura-backend/internal/httpx"
	"aura-backend/internal/portfolio"
	"aura-backend/internal/services"
	"aura-backend/internal/uploads"
	"aura-backend/internal/users"
	"aura-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisCache.Close()
		logger.Info("redis cache enabled")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "aura-backend",
		}
	} else {
		logger.Warn("JWT_SECRET not set: token login disabled")
	}

	store, err := uploads.NewStore(cfg.UploadDir, cfg.PublicUploadURL, cfg.MaxUploadBytes)
	if err != nil {
		logger.Error("upload dir unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	val := validation.New(httpx.Text{})
	expose := cfg.ExposeErrors()
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	servicesService := services.NewService(services.NewRepository(cols.Services), val, cfg.Timezone)
	faqsService := faqs.NewService(faqs.NewRepository(cols.FAQs), cfg.Timezone)
	portfolioService := portfolio.NewService(portfolio.NewRepository(cols.Portfolios), cfg.Timezone)
	usersService := users.NewService(users.NewRepository(cols.Users), jwtManager, cfg.Timezone)

	rt := &routes{
		cfg:       cfg,
		log:       logger,
		jwt:       jwtManager,
		store:     store,
		services:  services.NewHandler(servicesService, store, cacheStore, cacheTTL, logger, expose),
		faqs:      faqs.NewHandler(faqsService, val, logger, expose),
		portfolio: portfolio.NewHandler(portfolioService, store, val, logger, expose),
		users:     users.NewHandler(usersService, val, logger, cfg.CookieSecure, expose),
		uploads:   uploads.NewHandler(store, logger, expose),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           rt.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
