package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"careeradvisor/internal/app"
	"careeradvisor/internal/config"
	"careeradvisor/internal/server"
	"careeradvisor/internal/util"
	"careeradvisor/internal/waitready"
	"careeradvisor/pkg/ai"
	"careeradvisor/pkg/auth"
	"careeradvisor/pkg/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	tokenTTL, err := config.ParseTokenTTL(cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to parse token TTL: %v", err)
	}

	util.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Do not accept traffic until the database answers; give up after the
	// configured attempts instead of starting degraded.
	var dataStore *store.GormStore
	err = waitready.Wait(ctx, waitready.Config{
		Name:     "postgres",
		Attempts: cfg.DBConnectRetries,
		Delay:    time.Duration(cfg.DBConnectDelayMs) * time.Millisecond,
	}, func(ctx context.Context) error {
		if dataStore == nil {
			s, err := store.NewGormStore(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			dataStore = s
		}
		return dataStore.Ping(ctx)
	})
	if err != nil {
		slog.Error("database never became ready", "err", err)
		os.Exit(1)
	}

	generator := ai.NewClient(ai.ClientConfig{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     time.Duration(cfg.CompletionTimeoutSeconds) * time.Second,
	})

	appCore, err := app.New(app.Config{
		Store:             dataStore,
		Generator:         generator,
		Tokens:            auth.NewTokenIssuer(cfg.JWTSecret, tokenTTL),
		RecorderQueueSize: cfg.RecorderQueueSize,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(server.Config{
		App:                appCore,
		StaticDir:          cfg.StaticDir,
		RequireAuthHistory: cfg.RequireAuthHistory,
	})

	handler := util.WithRequestID(
		util.WithSecurityHeaders(
			util.WithCORS(
				util.WithRequestLog(httpServer.Router()),
			),
		),
	)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("career advisor listening", "addr", addr, "model", cfg.OpenAIModel)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	// Flush any audit writes still queued.
	appCore.Close()
}
