package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"blog-pipeline/internal/app"
	"blog-pipeline/internal/post"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), deps, os.Stdout); err != nil {
		deps.Log.Error("pipeline failed", "err", err)
		os.Exit(1)
	}
}

// run loads the blog post, runs the pipeline and prints the result. Input errors
// are logged and end the run without an error.
func run(ctx context.Context, deps app.Deps, out io.Writer) error {
	blog, err := loadPost(ctx, deps)
	if err != nil {
		if errors.Is(err, post.ErrInput) {
			deps.Log.Error("no input; pipeline not run", "err", err)
			return nil
		}
		return err
	}

	deps.Log.Info("running pipeline workflow", "provider", deps.Provider.Name, "model", deps.Provider.Model)
	result := deps.Pipeline.Run(ctx, blog)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func loadPost(ctx context.Context, deps app.Deps) (post.BlogPost, error) {
	if deps.Config.InputURL != "" {
		client := &http.Client{Timeout: deps.Config.FetchTimeout}
		return post.Fetch(ctx, client, deps.Config.InputURL)
	}
	return post.Load(deps.Config.InputPath)
}
