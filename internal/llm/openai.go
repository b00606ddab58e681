package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Compile-time interface check.
var _ Provider = (*OpenAIProvider)(nil)

// OpenAIProvider calls an OpenAI-compatible Chat Completions API. Groq exposes the
// same contract, so both provider profiles go through this type.
type OpenAIProvider struct {
	model  openai.ChatModel
	client *openai.Client
}

// NewOpenAIProvider builds a client against baseURL. An empty baseURL keeps the SDK
// default. SDK retries are disabled: each Complete is exactly one network attempt.
func NewOpenAIProvider(apiKey, baseURL, model string, opts ...option.RequestOption) *OpenAIProvider {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)
	cli := openai.NewClient(reqOpts...)
	return &OpenAIProvider{
		model:  openai.ChatModel(model),
		client: &cli,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("nil openai client")
	}
	params := openai.ChatCompletionNewParams{
		Model:    p.model,
		Messages: buildMessages(req.Messages),
	}
	if req.Tool != nil {
		params.Tools = []openai.ChatCompletionToolUnionParam{
			openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
				Name:        req.Tool.Name,
				Description: openai.String(req.Tool.Description),
				Parameters:  openai.FunctionParameters(req.Tool.Parameters),
			}),
		}
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfFunctionToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: req.Tool.Name,
				},
			},
		}
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	return convertResponse(resp), nil
}

func buildMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(m.Content),
					},
				},
			})
		case RoleAssistant:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content: openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: openai.String(m.Content),
					},
				},
			})
		default:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(m.Content),
					},
				},
			})
		}
	}
	return out
}

func convertResponse(resp *openai.ChatCompletion) *Response {
	out := &Response{Choices: make([]Choice, 0, len(resp.Choices))}
	for _, c := range resp.Choices {
		msg := AssistantMessage{Content: c.Message.Content}
		for _, tc := range c.Message.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		out.Choices = append(out.Choices, Choice{Message: msg})
	}
	return out
}
