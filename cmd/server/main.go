package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blog-pipeline/internal/app"
	"blog-pipeline/internal/httputil"
	"blog-pipeline/internal/post"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop() // a second signal kills the process
	}()

	r := httputil.NewRouter(deps.Log)

	r.Post("/api/pipeline", pipelineHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("pipeline server listening", "addr", addr, "provider", deps.Provider.Name)
	if err := httputil.Serve(ctx, deps.Log, addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// pipelineHandler runs the pipeline for a posted blog post. Model failures still
// produce a 200 with empty fields.
func pipelineHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req post.Payload
		if !httputil.DecodeBody(deps.Log, w, r, deps.Config.MaxBodySize, &req) {
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		result := deps.Pipeline.Run(r.Context(), req.BlogPost())
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}
