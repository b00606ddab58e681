package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blog-pipeline/internal/llm"
	"blog-pipeline/internal/post"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(p llm.Provider) *Pipeline {
	log := discardLogger()
	return New(llm.NewInvoker(p, log), log)
}

func forTool(name string) interface{} {
	return mock.MatchedBy(func(req llm.Request) bool {
		return req.Tool != nil && req.Tool.Name == name
	})
}

func userMessage(req llm.Request) string {
	for _, m := range req.Messages {
		if m.Role == llm.RoleUser {
			return m.Content
		}
	}
	return ""
}

func TestToolSchemasRequireDecodedFields(t *testing.T) {
	require.NoError(t, keyPointsTool.Validate("key_points"))
	require.NoError(t, summaryTool.Validate("summary"))
}

func TestExtractKeyPoints(t *testing.T) {
	blog := post.BlogPost{Title: "T", Content: "C"}

	tests := []struct {
		name  string
		setup func(*llm.MockProvider)
		want  []string
	}{
		{
			name: "returns key points in order",
			setup: func(p *llm.MockProvider) {
				p.On("Complete", mock.Anything, forTool("extract_key_points")).
					Return(llm.ToolResponse("extract_key_points", `{"key_points": ["a", "b"]}`), nil).Once()
			},
			want: []string{"a", "b"},
		},
		{
			name: "missing field defaults to empty",
			setup: func(p *llm.MockProvider) {
				p.On("Complete", mock.Anything, mock.Anything).
					Return(llm.ToolResponse("extract_key_points", `{}`), nil).Once()
			},
			want: []string{},
		},
		{
			name: "provider error falls back to empty",
			setup: func(p *llm.MockProvider) {
				p.On("Complete", mock.Anything, mock.Anything).
					Return(nil, errors.New("401 unauthorized")).Once()
			},
			want: []string{},
		},
		{
			name: "no choices falls back to empty",
			setup: func(p *llm.MockProvider) {
				p.On("Complete", mock.Anything, mock.Anything).Return(&llm.Response{}, nil).Once()
			},
			want: []string{},
		},
		{
			name: "empty tool call list falls back to empty",
			setup: func(p *llm.MockProvider) {
				p.On("Complete", mock.Anything, mock.Anything).Return(&llm.Response{Choices: []llm.Choice{{
					Message: llm.AssistantMessage{Content: "a, b", ToolCalls: []llm.ToolCall{}},
				}}}, nil).Once()
			},
			want: []string{},
		},
		{
			name: "malformed arguments fall back to empty",
			setup: func(p *llm.MockProvider) {
				p.On("Complete", mock.Anything, mock.Anything).
					Return(llm.ToolResponse("extract_key_points", `{"key_points": "a"}`), nil).Once()
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(llm.MockProvider)
			tt.setup(provider)

			got := newTestPipeline(provider).ExtractKeyPoints(context.Background(), blog)

			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			provider.AssertExpectations(t)
		})
	}
}

func TestExtractKeyPointsPrompt(t *testing.T) {
	provider := new(llm.MockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return len(req.Messages) == 2 &&
			req.Messages[0].Role == llm.RoleSystem &&
			req.Messages[0].Content == "You are an expert at analyzing content and extracting key points from articles." &&
			req.Messages[1].Role == llm.RoleUser &&
			req.Messages[1].Content == "Extract the key points from this blog post:\n\nTitle: Go Tips\n\nContent: Use gofmt."
	})).Return(llm.ToolResponse("extract_key_points", `{"key_points": ["gofmt"]}`), nil).Once()

	got := newTestPipeline(provider).ExtractKeyPoints(context.Background(), post.BlogPost{Title: "Go Tips", Content: "Use gofmt."})

	assert.Equal(t, []string{"gofmt"}, got)
	provider.AssertExpectations(t)
}

func TestGenerateSummary(t *testing.T) {
	tests := []struct {
		name       string
		keyPoints  []string
		wantPrompt string
		response   *llm.Response
		err        error
		want       string
	}{
		{
			name:       "bulleted key points",
			keyPoints:  []string{"point1", "point2"},
			wantPrompt: "Generate a summary based on these key points:\n\n- point1\n- point2",
			response:   llm.ToolResponse("generate_summary", `{"summary": "S"}`),
			want:       "S",
		},
		{
			name:       "empty key points still invoke the model",
			keyPoints:  []string{},
			wantPrompt: "Generate a summary based on these key points:\n\n",
			response:   llm.ToolResponse("generate_summary", `{"summary": "nothing to summarize"}`),
			want:       "nothing to summarize",
		},
		{
			name:       "provider error falls back to empty string",
			keyPoints:  []string{"a"},
			wantPrompt: "Generate a summary based on these key points:\n\n- a",
			err:        errors.New("timeout"),
			want:       "",
		},
		{
			name:       "free text response falls back to empty string",
			keyPoints:  []string{"a"},
			wantPrompt: "Generate a summary based on these key points:\n\n- a",
			response:   &llm.Response{Choices: []llm.Choice{{Message: llm.AssistantMessage{Content: "Summary: a"}}}},
			want:       "",
		},
		{
			name:       "missing summary field defaults to empty string",
			keyPoints:  []string{"a"},
			wantPrompt: "Generate a summary based on these key points:\n\n- a",
			response:   llm.ToolResponse("generate_summary", `{"other": 1}`),
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(llm.MockProvider)
			call := provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
				return req.Tool != nil && req.Tool.Name == "generate_summary" &&
					req.Messages[0].Content == "You are an expert at summarizing content concisely while preserving key information." &&
					userMessage(req) == tt.wantPrompt
			})).Once()
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(tt.response, nil)
			}

			got := newTestPipeline(provider).GenerateSummary(context.Background(), tt.keyPoints)

			assert.Equal(t, tt.want, got)
			provider.AssertExpectations(t)
		})
	}
}

func TestRunEndToEnd(t *testing.T) {
	provider := new(llm.MockProvider)
	provider.On("Complete", mock.Anything, forTool("extract_key_points")).
		Return(llm.ToolResponse("extract_key_points", `{"key_points": ["point1", "point2"]}`), nil).Once()
	provider.On("Complete", mock.Anything, forTool("generate_summary")).
		Return(llm.ToolResponse("generate_summary", `{"summary": "S"}`), nil).Once()

	result := newTestPipeline(provider).Run(context.Background(), post.BlogPost{Title: "T", Content: "C"})

	assert.Equal(t, Result{KeyPoints: []string{"point1", "point2"}, Summary: "S"}, result)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key_points": ["point1", "point2"], "summary": "S"}`, string(out))
	provider.AssertExpectations(t)
}

func TestRunPassesKeyPointsThroughUnchanged(t *testing.T) {
	points := []string{"zeta", "alpha", "alpha", ""}
	provider := new(llm.MockProvider)
	provider.On("Complete", mock.Anything, forTool("extract_key_points")).
		Return(llm.ToolResponse("extract_key_points", `{"key_points": ["zeta", "alpha", "alpha", ""]}`), nil).Once()

	var summaryPrompt string
	provider.On("Complete", mock.Anything, forTool("generate_summary")).
		Run(func(args mock.Arguments) {
			summaryPrompt = userMessage(args.Get(1).(llm.Request))
		}).
		Return(llm.ToolResponse("generate_summary", `{"summary": "S"}`), nil).Once()

	result := newTestPipeline(provider).Run(context.Background(), post.BlogPost{Title: "T", Content: "C"})

	assert.Equal(t, points, result.KeyPoints)
	assert.Equal(t, "Generate a summary based on these key points:\n\n- zeta\n- alpha\n- alpha\n- ", summaryPrompt)
	provider.AssertExpectations(t)
}

func TestRunAlwaysProducesBothKeys(t *testing.T) {
	provider := new(llm.MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Twice()

	result := newTestPipeline(provider).Run(context.Background(), post.BlogPost{Title: "T", Content: "C"})

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key_points": [], "summary": ""}`, string(out))
	provider.AssertNumberOfCalls(t, "Complete", 2)
}
