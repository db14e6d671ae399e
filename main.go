package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"smartsaver/config"
	httpLayer "smartsaver/http"
	"smartsaver/repository"
	"smartsaver/service"
	"smartsaver/tracing"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	decimal.MarshalJSONWithoutQuotes = true

	rates, err := config.LoadRates(cfg.RatesFile)
	if err != nil {
		return fmt.Errorf("load rates: %w", err)
	}

	ctx := context.Background()
	tracer, shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	var sessions repository.SessionRepository
	if cfg.RedisAddr != "" {
		redisSessions := repository.NewRedisSessionRepository(cfg.RedisAddr, cfg.SessionTTL)
		defer redisSessions.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisSessions.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		slog.Info("advisor sessions stored in redis", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
		sessions = redisSessions
	} else {
		slog.Info("advisor sessions stored in memory")
		sessions = repository.NewSessionRepositoryMemory()
	}

	savingsService := service.NewSavingsService(cfg, rates, tracer)
	aiService := service.NewAIService(cfg)
	if !aiService.Enabled() {
		slog.Info("OPENAI_API_KEY not set, chat uses scripted replies")
	}
	advisorService := service.NewAdvisorService(savingsService, aiService, sessions)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(
		httpLayer.NewSavingsHandler(savingsService),
		httpLayer.NewAdvisorHandler(advisorService),
		rateLimiter,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("start server: %w", err)
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during server shutdown", "error", err)
	}

	slog.Info("server exited")
	return nil
}
