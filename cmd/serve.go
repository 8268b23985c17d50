package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gastonglz/portfolio-engine/internal/api"
	"github.com/gastonglz/portfolio-engine/internal/config"
	"github.com/gastonglz/portfolio-engine/internal/domain"
	"github.com/gastonglz/portfolio-engine/internal/engine"
	"github.com/gastonglz/portfolio-engine/internal/guard"
	"github.com/gastonglz/portfolio-engine/internal/index"
	"github.com/gastonglz/portfolio-engine/internal/provider"
)

const shutdownTimeout = 10 * time.Second

// runServe assembles the full dependency graph and runs the HTTP server until
// SIGINT/SIGTERM. Startup never fails for missing provider credentials or
// documents; those degrade to the local fallback path at request time.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	logger.Info("starting", "version", versionString(), "addr", cfg.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := provider.SetupBackends(ctx, provider.Credentials{
		GeminiAPIKey:    cfg.GeminiAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OllamaHost:      cfg.OllamaHost,
		GeminiModel:     cfg.GeminiModel,
		OpenAIModel:     cfg.OpenAIModel,
		OllamaModel:     cfg.OllamaModel,
		EmbedderModel:   cfg.EmbedderModel,
		GenerateTimeout: cfg.GenerateTimeout(),
	}, logger.With("component", "provider"))
	if err != nil {
		return err
	}
	router := provider.NewRouter(backends.Providers)

	domains := domain.Defaults(cfg.DocsDir)

	// Retrieval is wired only when an embedding backend exists; the engine
	// treats a nil retriever as retrieval disabled.
	var retriever engine.Retriever
	if backends.Embedder != nil {
		retriever = index.NewCache(index.CacheConfig{
			Loader:       domain.NewStore(domains),
			Embedder:     backends.Embedder,
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			Logger:       logger.With("component", "index"),
		})
	}

	eng := engine.New(engine.Config{
		Inspector:  guard.NewInspector(),
		Classifier: domain.NewClassifier(domains),
		Retriever:  retriever,
		Selector:   router,
		Logger:     logger.With("component", "engine"),
		TopK:       cfg.TopK,
	})

	handler := api.NewServer(api.ServerConfig{
		Responder:   eng,
		Providers:   router,
		Logger:      logger.With("component", "api"),
		CORSOrigins: cfg.CORSOrigins,
		RateBurst:   cfg.RateBurst,
		TrustProxy:  cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("listening", "addr", cfg.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
