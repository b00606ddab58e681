package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"blog-pipeline/internal/config"
	"blog-pipeline/internal/llm"
	"blog-pipeline/internal/logger"
	"blog-pipeline/internal/pipeline"
	"blog-pipeline/internal/queue"
)

// Deps bundles common runtime dependencies for the binaries.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Provider config.Provider
	Pipeline *pipeline.Pipeline
}

// WorkerDeps adds the job queue used by cmd/worker.
type WorkerDeps struct {
	Deps
	Queue queue.Queue
}

// Build loads env, config, and shared components. An unsupported MODEL_SERVER
// fails here, before any network activity.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	return BuildFromConfig(cfg, log)
}

// BuildFromConfig wires the pipeline for an already loaded configuration.
func BuildFromConfig(cfg config.Config, log *slog.Logger) (Deps, error) {
	profile, err := cfg.Provider()
	if err != nil {
		return Deps{}, err
	}
	provider := buildLLM(profile, log)
	return Deps{
		Config:   cfg,
		Log:      log,
		Provider: profile,
		Pipeline: pipeline.New(llm.NewInvoker(provider, log), log),
	}, nil
}

// BuildWorker builds Deps plus a NATS-backed queue.
func BuildWorker(ctx context.Context) (WorkerDeps, error) {
	deps, err := Build()
	if err != nil {
		return WorkerDeps{}, err
	}
	if deps.Config.QueueURL == "" {
		return WorkerDeps{}, fmt.Errorf("QUEUE_URL is required for the worker")
	}
	nc, err := queue.Connect(ctx, deps.Config.QueueURL, 3, 200*time.Millisecond)
	if err != nil {
		return WorkerDeps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	deps.Log.Info("using NATS queue", "subject", deps.Config.QueueSubject)
	return WorkerDeps{
		Deps:  deps,
		Queue: queue.NewNATS(deps.Log, nc, deps.Config.QueueSubject),
	}, nil
}

func buildLLM(p config.Provider, log *slog.Logger) llm.Provider {
	if p.APIKey == "" {
		log.Warn("API key is empty; LLM calls will fail", "provider", p.Name)
	}
	if p.Model == "" {
		log.Warn("model is empty; LLM calls will fail", "provider", p.Name)
	}
	log.Info("using OpenAI-compatible LLM client", "provider", p.Name, "base_url", p.BaseURL, "model", p.Model)
	return llm.NewOpenAIProvider(p.APIKey, p.BaseURL, p.Model)
}
