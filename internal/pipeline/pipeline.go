package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"blog-pipeline/internal/llm"
	"blog-pipeline/internal/post"
)

// Result is the terminal output of one run. KeyPoints is never nil so it
// always encodes as a JSON array.
type Result struct {
	KeyPoints []string `json:"key_points"`
	Summary   string   `json:"summary"`
}

// Invoker is the model invocation primitive the tasks are built on.
type Invoker interface {
	Invoke(ctx context.Context, messages []llm.Message, tool *llm.ToolSchema) *llm.Response
}

// Pipeline runs key point extraction followed by summarization.
type Pipeline struct {
	invoker Invoker
	log     *slog.Logger
}

// New builds a pipeline over invoker.
func New(invoker Invoker, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{invoker: invoker, log: log}
}

// Run extracts key points from p and summarizes exactly those points. It always
// returns a result; model failures show up as empty fields.
func (pl *Pipeline) Run(ctx context.Context, p post.BlogPost) Result {
	runID := uuid.New()
	log := pl.log.With("run_id", runID.String())
	scoped := &Pipeline{invoker: pl.invoker, log: log}

	log.InfoContext(ctx, "pipeline started", "title", p.Title)
	keyPoints := scoped.ExtractKeyPoints(ctx, p)
	log.InfoContext(ctx, "key points extracted", "count", len(keyPoints))
	summary := scoped.GenerateSummary(ctx, keyPoints)
	log.InfoContext(ctx, "pipeline finished", "summary_len", len(summary))

	return Result{KeyPoints: keyPoints, Summary: summary}
}
