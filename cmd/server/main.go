package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/api"
	"github.com/SUMMERxKx/nwHacks/internal/auth"
	"github.com/SUMMERxKx/nwHacks/internal/config"
	"github.com/SUMMERxKx/nwHacks/internal/insight"
	"github.com/SUMMERxKx/nwHacks/internal/llm"
	"github.com/SUMMERxKx/nwHacks/internal/ratelimit"
	"github.com/SUMMERxKx/nwHacks/internal/service"
	"github.com/SUMMERxKx/nwHacks/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *internal.ZapLogger) error {
	repo, err := storage.NewRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	var model llm.Completer
	if cfg.HasLLM() {
		client, err := llm.NewClient(llm.Config{
			BaseURL:     cfg.LLMBaseURL,
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
			Timeout:     cfg.LLMRequestTimeout,
		})
		if err != nil {
			return err
		}
		model = client
	} else {
		logger.Warn("LLM_API_KEY not set, insight endpoints will serve fallbacks")
	}

	if cfg.AuthMode == "local" && len(cfg.AuthTokens) == 0 && cfg.Env == "development" {
		logger.Warn("AUTH_TOKENS not set, accepting MOCK-TOKEN for user u1")
		cfg.AuthTokens = map[string]string{"MOCK-TOKEN": "u1"}
	}
	provider, err := auth.NewProvider(cfg, logger)
	if err != nil {
		return err
	}

	var limiter ratelimit.Allower
	if cfg.RateLimitEnabled() {
		client, err := ratelimit.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		rl := ratelimit.NewRedisLimiter(client, cfg.RateLimitPerMinute, time.Minute)
		defer func() { _ = rl.Close() }()
		limiter = rl
	}

	pipeline := insight.NewPipeline(repo, model, logger, cfg.LLMRequestTimeout)
	app := api.NewApp(cfg, logger, repo, service.NewInsights(pipeline))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(app, provider, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Server running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
