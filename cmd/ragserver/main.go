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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragchat/internal/config"
	"github.com/kailas-cloud/ragchat/internal/db"
	dbQdrant "github.com/kailas-cloud/ragchat/internal/db/qdrant"
	dbRedis "github.com/kailas-cloud/ragchat/internal/db/redis"
	logpkg "github.com/kailas-cloud/ragchat/internal/logger"
	"github.com/kailas-cloud/ragchat/internal/metrics"
	chunkrepo "github.com/kailas-cloud/ragchat/internal/repository/chunk"
	chiTransport "github.com/kailas-cloud/ragchat/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/ragchat/internal/transport/openai"
	answeruc "github.com/kailas-cloud/ragchat/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/ragchat/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ragchat/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/ragchat/internal/usecase/retrieval"
	"github.com/kailas-cloud/ragchat/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ragchat server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("vector_store", cfg.VectorStore.Driver),
		zap.String("collection", cfg.VectorStore.Collection),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("generation_model", cfg.Generation.Model),
	)

	store, err := newStore(cfg.VectorStore)
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	readiness := time.Duration(cfg.VectorStore.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	// Register upstream metrics explicitly (no init())
	metrics.RegisterUpstreamMetrics()

	embProv := cfg.Providers[cfg.Embedding.Provider]
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     embProv.APIKey,
		BaseURL:    embProv.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	embedder := embeddinguc.NewInstrumentedEmbedder(
		baseEmbedder, cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions, logger,
	)

	genProv := cfg.Providers[cfg.Generation.Provider]
	generator := openaiTransport.NewGenerator(&openaiTransport.Config{
		APIKey:    genProv.APIKey,
		BaseURL:   genProv.BaseURL,
		Model:     cfg.Generation.Model,
		MaxTokens: cfg.Generation.MaxOutputTokens,
		Provider:  cfg.Generation.Provider,
		Logger:    logger,
	})

	chunkRepo := chunkrepo.New(store, cfg.VectorStore.TextField)
	retrievalSvc := retrievaluc.New(chunkRepo, embedder, cfg.VectorStore.Collection).
		WithTopK(cfg.VectorStore.TopK)
	answerSvc := answeruc.New(retrievalSvc, generator)
	healthSvc := healthuc.New(store, baseEmbedder, generationChecker(cfg, generator))

	server := chiTransport.NewServer(answerSvc, healthSvc, logger).
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore picks the vector store backend by driver.
func newStore(cfg config.VectorStoreConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverQdrant:
		return dbQdrant.NewStore(dbQdrant.Config{
			URL:     cfg.URL,
			APIKey:  cfg.APIKey,
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		})
	case config.DriverRedis, config.DriverValkey:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.Addrs,
			Username:    cfg.Username,
			Password:    cfg.Password,
			DB:          cfg.DB,
			VectorField: cfg.VectorField,
			Valkey:      cfg.Driver == config.DriverValkey,
		})
	default:
		return nil, fmt.Errorf("unknown vector store driver %q", cfg.Driver)
	}
}

// generationChecker skips a second provider probe when embedding and generation
// share one provider.
func generationChecker(cfg config.Config, gen *openaiTransport.Generator) healthuc.ProviderChecker {
	if cfg.Generation.Provider == cfg.Embedding.Provider {
		return nil
	}
	return gen
}
