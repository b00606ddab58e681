package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"blog-pipeline/internal/app"
	"blog-pipeline/internal/httputil"
	"blog-pipeline/internal/pipeline"
	"blog-pipeline/internal/queue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop() // a second signal kills the process
	}()

	deps, err := app.BuildWorker(ctx)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("pipeline worker starting")

	if err := serve(ctx, deps); err != nil {
		deps.Log.Error("worker stopped", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("pipeline worker stopped")
}

// serve runs the queue worker and the health endpoint until ctx is cancelled
// or either fails, then drains the queue connection.
func serve(ctx context.Context, deps app.WorkerDeps) error {
	g, gctx := errgroup.WithContext(ctx)

	// Run queue worker
	g.Go(func() error {
		return runWorker(gctx, deps)
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(gctx, deps.Deps, "worker")
	})

	err := g.Wait()
	if cerr := deps.Queue.Close(); cerr != nil {
		deps.Log.Warn("failed to drain queue connection", "err", cerr)
	}
	return err
}

func runWorker(ctx context.Context, deps app.WorkerDeps) error {
	return deps.Queue.Worker(ctx, func(ctx context.Context, job queue.Job) (pipeline.Result, error) {
		return handleJob(ctx, deps.Deps, job)
	})
}

func handleJob(ctx context.Context, deps app.Deps, job queue.Job) (pipeline.Result, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Result{}, err
	}
	log := deps.Log.With("job_id", job.ID)
	log.Info("job received", "title", job.Post.Title)
	result := deps.Pipeline.Run(ctx, job.Post)
	log.Info("job done", "key_points", len(result.KeyPoints))
	return result, nil
}
