package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blog-pipeline/internal/llm"
	"blog-pipeline/internal/post"
)

var keyPointsTool = llm.ToolSchema{
	Name:        "extract_key_points",
	Description: "Extract key points from a blog post",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "List of key points extracted from the blog post",
			},
		},
		"required": []string{"key_points"},
	},
}

var summaryTool = llm.ToolSchema{
	Name:        "generate_summary",
	Description: "Generate a concise summary",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
		},
		"required": []string{"summary"},
	},
}

type keyPointsArgs struct {
	KeyPoints []string `json:"key_points"`
}

type summaryArgs struct {
	Summary string `json:"summary"`
}

// ExtractKeyPoints asks the model for the key points of p. It returns an empty,
// non-nil slice when no usable tool call comes back.
func (pl *Pipeline) ExtractKeyPoints(ctx context.Context, p post.BlogPost) []string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are an expert at analyzing content and extracting key points from articles."},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Extract the key points from this blog post:\n\nTitle: %s\n\nContent: %s", p.Title, p.Content)},
	}
	tool := keyPointsTool
	resp := pl.invoker.Invoke(ctx, messages, &tool)

	var args keyPointsArgs
	if err := llm.DecodeToolCall(resp, &args); err != nil {
		pl.logFallback(ctx, tool.Name, resp, err)
		return []string{}
	}
	if args.KeyPoints == nil {
		return []string{}
	}
	return args.KeyPoints
}

// GenerateSummary asks the model for a summary of keyPoints. An empty list is
// still sent, as an empty bulleted block. It returns "" on failure.
func (pl *Pipeline) GenerateSummary(ctx context.Context, keyPoints []string) string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are an expert at summarizing content concisely while preserving key information."},
		{Role: llm.RoleUser, Content: "Generate a summary based on these key points:\n\n" + bulletList(keyPoints)},
	}
	tool := summaryTool
	resp := pl.invoker.Invoke(ctx, messages, &tool)

	var args summaryArgs
	if err := llm.DecodeToolCall(resp, &args); err != nil {
		pl.logFallback(ctx, tool.Name, resp, err)
		return ""
	}
	return args.Summary
}

func (pl *Pipeline) logFallback(ctx context.Context, tool string, resp *llm.Response, err error) {
	// A nil response was already reported by the invoker.
	if resp == nil {
		return
	}
	if errors.Is(err, llm.ErrNoToolCall) {
		pl.log.WarnContext(ctx, "tool calling failed; using fallback", "tool", tool, "err", err)
		return
	}
	pl.log.ErrorContext(ctx, "failed to decode tool call; using fallback", "tool", tool, "err", err)
}

func bulletList(points []string) string {
	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = "- " + p
	}
	return strings.Join(lines, "\n")
}
